package main

import (
	"fmt"
	"imagesvc/internal/adapters/codec"
	"imagesvc/internal/adapters/converter"
	"imagesvc/internal/config"
	"imagesvc/internal/core/domain"
	"imagesvc/internal/core/port"
	"imagesvc/internal/core/service"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "imagesvc",
	Short:         "Image transformation service",
	Long:          "imagesvc decodes base64 images, applies a transformation and returns the result as base64.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to the TOML config file (default ./config.toml)")

	rootCmd.AddCommand(serveCmd, transformCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("imagesvc failed")
	}
}

func loadConfig() (*config.Config, error) {
	log.Info().Msg("reading config...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	var logLevel zerolog.Level

	switch cfg.Log.Level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	return cfg, nil
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: os.Stderr}
}

func newService(cfg *config.Config, recorder port.StepRecorder) (*service.TransformService,
	*converter.ImagingConverter, error) {
	c, err := codec.NewBase64Codec(cfg.Image.OutputFormat, cfg.Image.JPEGQuality, cfg.Image.MaxPixels)
	if err != nil {
		return nil, nil, fmt.Errorf("failed initializing codec: %w", err)
	}

	conv, err := converter.NewImagingConverter(cfg.Transform.Enabled, converter.Limits{
		MaxWidth:  cfg.Transform.MaxWidth,
		MaxHeight: cfg.Transform.MaxHeight,
		BlurSigma: cfg.Transform.BlurSigma,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed initializing converter: %w", err)
	}

	svc := service.NewTransformService(c, conv, recorder, domain.ParseOperationName(cfg.Transform.Default))

	return svc, conv, nil
}
