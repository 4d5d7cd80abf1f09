package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/eringen/draftsmith"
	"github.com/eringen/draftsmith/credentials"
)

// setDefaults registers the defaults that SiteConfig does not already apply.
func setDefaults(v *viper.Viper) {
	v.SetDefault("static_dir", "public")
	v.SetDefault("mirror_featured_images", false)
	v.SetDefault("cookie_secure", false)
}

// siteConfig builds a SiteConfig from v. Keys are the lower-cased names of
// the environment variables (SITE_NAME -> site_name), so the same names work
// in draftsmith.yaml.
func siteConfig(v *viper.Viper) draftsmith.SiteConfig {
	return draftsmith.SiteConfig{
		Name:                 v.GetString("site_name"),
		URL:                  v.GetString("site_url"),
		Description:          v.GetString("site_description"),
		Author:               v.GetString("site_author"),
		Addr:                 v.GetString("addr"),
		DatabasePath:         v.GetString("database_path"),
		AdminPassword:        v.GetString("admin_password"),
		SessionSecret:        v.GetString("admin_session_secret"),
		CookieSecure:         v.GetBool("cookie_secure"),
		APIToken:             v.GetString("api_token"),
		MirrorFeaturedImages: v.GetBool("mirror_featured_images"),
		AI: draftsmith.AIConfig{
			Env: credentials.EnvDefaults(func(name string) string {
				return v.GetString(strings.ToLower(name))
			}),
			APIFreeBaseURL:      v.GetString("apifree_base_url"),
			OpenRouterBaseURL:   v.GetString("openrouter_base_url"),
			GeminiBaseURL:       v.GetString("gemini_base_url"),
			ReplicateBaseURL:    v.GetString("replicate_base_url"),
			PollinationsBaseURL: v.GetString("pollinations_base_url"),
			GenerationTimeout:   v.GetDuration("generation_timeout"),
			MockDelay:           v.GetDuration("mock_delay"),
			DefaultItemCount:    v.GetInt("default_item_count"),
			GenerateLimit:       v.GetInt("generate_limit"),
			GenerateWindow:      v.GetDuration("generate_window"),
		},
	}
}
