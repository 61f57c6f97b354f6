package main

import (
	"context"
	"imagesvc/internal/adapters/handler"
	"imagesvc/internal/adapters/journal"
	"imagesvc/internal/adapters/server"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	log.Logger = log.Output(consoleWriter())
	log.Info().Msg("starting imagesvc...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	journal.ReportErrorsTo(os.Stderr)

	var console io.Writer
	if cfg.Log.Console {
		console = os.Stdout
	}

	j, err := journal.Open(cfg.Log.File, console)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Log.File).Msg("could not open log file")
	}
	defer func() {
		if err := j.Close(); err != nil {
			log.Error().Err(err).Msg("could not close log file")
		}
	}()

	log.Logger = zerolog.New(j.Writer()).With().Timestamp().Logger()

	gin.SetMode(cfg.Server.Mode)

	svc, conv, err := newService(cfg, j)
	if err != nil {
		return err
	}

	h := handler.NewHTTP(svc, j, cfg.Server.MaxBodyBytes, conv.Operations())
	srv := server.New(cfg.Server, handler.NewRouter(h))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Str("address", cfg.Server.Addr()).
		Strs("operations", conv.Operations()).
		Str("default", cfg.Transform.Default).
		Msg("imagesvc listening")

	return srv.Run(ctx)
}
