package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/draftsmith"
	"github.com/eringen/draftsmith/pipeline"
	"github.com/eringen/draftsmith/views"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a draft article and print it as JSON",
	Long: `Generate runs the article pipeline for a topic such as "10 best desk lamps"
and prints the Draft Article as JSON. Provider keys come from the database
settings first and the environment second, exactly as for the HTTP API.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		variantName, _ := cmd.Flags().GetString("variant")
		variant, err := pipeline.ParseVariant(variantName)
		if err != nil {
			return err
		}
		keywords, _ := cmd.Flags().GetString("keywords")
		save, _ := cmd.Flags().GetBool("save")

		v := viper.GetViper()
		app := draftsmith.New(siteConfig(v), views.Default(),
			draftsmith.WithLogger(newLogger(v)),
			draftsmith.WithStaticDir(v.GetString("static_dir")),
		)
		defer app.Close()
		if err := app.Init(); err != nil {
			return err
		}

		ctx := cmd.Context()
		draft, err := app.Pipeline.Run(ctx, variant, pipeline.Request{
			Topic:    strings.Join(args, " "),
			Keywords: keywords,
		})
		if err != nil {
			return err
		}

		var out any = draft
		if save {
			saved, err := app.SaveDraft(ctx, draftsmith.ArticleFromDraft(draft))
			if err != nil {
				return fmt.Errorf("save draft: %w", err)
			}
			out = saved
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	generateCmd.Flags().String("variant", string(pipeline.VariantListicle), "pipeline variant: mock, gemini or listicle")
	generateCmd.Flags().String("keywords", "", "comma-separated keywords to weave in and add as tags")
	generateCmd.Flags().Bool("save", false, "store the result as a draft in the database")

	rootCmd.AddCommand(generateCmd)
}
