// Command inkwell runs the blog server. All site branding and paths come
// from environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/inkwell"
	"github.com/eringen/inkwell/views"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := inkwell.Config{
		Site: views.SiteConfig{
			Name:        inkwell.EnvOr("SITE_NAME", "Blog"),
			URL:         inkwell.EnvOr("SITE_URL", "http://localhost:3000"),
			Description: os.Getenv("SITE_DESCRIPTION"),
			Author:      os.Getenv("SITE_AUTHOR"),
			AuthorEmail: os.Getenv("SITE_AUTHOR_EMAIL"),
		},
		Addr:       inkwell.EnvOr("ADDR", ":3000"),
		ContentDir: inkwell.EnvOr("CONTENT_DIR", "content"),
		StaticDir:  inkwell.EnvOr("STATIC_DIR", "public"),
	}

	app := inkwell.New(cfg, inkwell.WithLogger(logger))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	if err := app.Start(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
