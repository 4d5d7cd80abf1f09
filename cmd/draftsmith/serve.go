package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/draftsmith"
	"github.com/eringen/draftsmith/views"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the blog and generation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		logger := newLogger(v)

		app := draftsmith.New(siteConfig(v), views.Default(),
			draftsmith.WithLogger(logger),
			draftsmith.WithStaticDir(v.GetString("static_dir")),
		)
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() { errc <- app.Start() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return <-errc
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
