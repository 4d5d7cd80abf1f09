// Package credentials resolves which AI providers a generation request may
// use. Values come from the persisted site settings first and from the
// process environment second; model IDs additionally carry built-in defaults.
package credentials

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Setting keys as stored in the site_settings table.
const (
	KeyAPIFreeAPIKey     = "apifree_api_key"
	KeyOpenRouterAPIKey  = "openrouter_api_key"
	KeyGeminiAPIKey      = "gemini_api_key"
	KeyReplicateAPIToken = "replicate_api_token"

	KeyAPIFreeTextModel  = "apifree_text_model"
	KeyAPIFreeImageModel = "apifree_image_model"
	KeyOpenRouterModel   = "openrouter_model"
	KeyGeminiModel       = "gemini_model"
	KeyReplicateModel    = "replicate_model"
)

// Setting describes one provider setting: where it is stored, which
// environment variable supplies its default, and its built-in fallback.
type Setting struct {
	Key      string
	Env      string
	Fallback string
	Secret   bool
}

// Catalog lists every setting the resolver reads, in display order.
var Catalog = []Setting{
	{Key: KeyAPIFreeAPIKey, Env: "APIFREE_API_KEY", Secret: true},
	{Key: KeyOpenRouterAPIKey, Env: "OPENROUTER_API_KEY", Secret: true},
	{Key: KeyGeminiAPIKey, Env: "GEMINI_API_KEY", Secret: true},
	{Key: KeyReplicateAPIToken, Env: "REPLICATE_API_TOKEN", Secret: true},
	{Key: KeyAPIFreeTextModel, Env: "APIFREE_TEXT_MODEL", Fallback: "openai/gpt-4o-mini"},
	{Key: KeyAPIFreeImageModel, Env: "APIFREE_IMAGE_MODEL", Fallback: "flux-schnell"},
	{Key: KeyOpenRouterModel, Env: "OPENROUTER_MODEL", Fallback: "google/gemini-2.0-flash-001"},
	{Key: KeyGeminiModel, Env: "GEMINI_MODEL", Fallback: "gemini-2.0-flash"},
	{Key: KeyReplicateModel, Env: "REPLICATE_MODEL", Fallback: "black-forest-labs/flux-schnell"},
}

// Keys returns the storage keys of every catalogued setting.
func Keys() []string {
	keys := make([]string, len(Catalog))
	for i, s := range Catalog {
		keys[i] = s.Key
	}
	return keys
}

// Lookup returns the catalogue entry for key.
func Lookup(key string) (Setting, bool) {
	for _, s := range Catalog {
		if s.Key == key {
			return s, true
		}
	}
	return Setting{}, false
}

// EnvDefaults reads the environment default of every catalogued setting
// through getenv (os.Getenv, viper.GetString, ...). Empty values are omitted.
func EnvDefaults(getenv func(string) string) map[string]string {
	out := make(map[string]string)
	if getenv == nil {
		return out
	}
	for _, s := range Catalog {
		if v := getenv(s.Env); v != "" {
			out[s.Key] = v
		}
	}
	return out
}

// Reader reads persisted settings. Missing keys are simply absent from the
// returned map.
type Reader interface {
	GetSettings(ctx context.Context, keys []string) (map[string]string, error)
}

// Resolver builds Credentials for a single request.
type Resolver struct {
	reader  Reader
	env     map[string]string
	timeout time.Duration
	log     zerolog.Logger
}

// NewResolver creates a Resolver. reader may be nil, in which case only the
// environment defaults are used.
func NewResolver(reader Reader, env map[string]string, logger zerolog.Logger) *Resolver {
	copied := make(map[string]string, len(env))
	for k, v := range env {
		copied[k] = v
	}
	return &Resolver{
		reader:  reader,
		env:     copied,
		timeout: 5 * time.Second,
		log:     logger,
	}
}

// Resolve merges persisted settings over environment defaults. It never
// fails: an unreachable store degrades to environment values only.
func (r *Resolver) Resolve(ctx context.Context) Credentials {
	var stored map[string]string
	if r.reader != nil {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		values, err := r.reader.GetSettings(rctx, Keys())
		cancel()
		if err != nil {
			r.log.Warn().Err(err).Msg("settings store unavailable, using environment defaults")
		} else {
			stored = values
		}
	}

	values := make(map[string]string, len(Catalog))
	sources := make(map[string]Source, len(Catalog))
	for _, s := range Catalog {
		switch {
		case stored[s.Key] != "":
			values[s.Key] = stored[s.Key]
			sources[s.Key] = SourceStored
		case r.env[s.Key] != "":
			values[s.Key] = r.env[s.Key]
			sources[s.Key] = SourceEnv
		case s.Fallback != "":
			values[s.Key] = s.Fallback
			sources[s.Key] = SourceDefault
		}
	}
	return Credentials{values: values, sources: sources}
}
