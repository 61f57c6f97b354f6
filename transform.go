package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"imagesvc/internal/adapters/file"
	"imagesvc/internal/adapters/journal"
	"imagesvc/internal/core/domain"
	"os"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var transformFlags struct {
	in, out   string
	operation string
	angle     int
	width     int
	height    int
	sigma     float64
}

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform a local image file",
	Long: `Run a single transformation against a local file and write the result.

The journal records go to the configured log file, the same as requests served over HTTP.`,
	RunE: runTransform,
}

func init() {
	f := transformCmd.Flags()
	f.StringVar(&transformFlags.in, "in", "", "input image file")
	f.StringVar(&transformFlags.out, "out", "", "output image file")
	f.StringVarP(&transformFlags.operation, "type", "t", "", "transformation type (default from config)")
	f.IntVar(&transformFlags.angle, "angle", 0, "rotation angle in degrees")
	f.IntVar(&transformFlags.width, "width", 0, "target width for resize")
	f.IntVar(&transformFlags.height, "height", 0, "target height for resize")
	f.Float64Var(&transformFlags.sigma, "sigma", 0, "blur sigma")

	_ = transformCmd.MarkFlagRequired("in")
	_ = transformCmd.MarkFlagRequired("out")
}

func runTransform(cmd *cobra.Command, _ []string) error {
	log.Logger = log.Output(consoleWriter())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	journal.ReportErrorsTo(os.Stderr)

	j, err := journal.Open(cfg.Log.File, nil)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer func() {
		if err := j.Close(); err != nil {
			log.Error().Err(err).Msg("could not close log file")
		}
	}()

	svc, _, err := newService(cfg, j)
	if err != nil {
		return err
	}

	data, err := file.Read(transformFlags.in)
	if err != nil {
		return err
	}

	req := &domain.TransformRequest{
		Image:   base64.StdEncoding.EncodeToString(data),
		Options: domain.Options{Operation: domain.ParseOperationName(transformFlags.operation)},
	}

	flags := cmd.Flags()
	if flags.Changed("angle") {
		req.Options.RotationAngle = &transformFlags.angle
	}
	if flags.Changed("width") {
		req.Options.Width = &transformFlags.width
	}
	if flags.Changed("height") {
		req.Options.Height = &transformFlags.height
	}
	if flags.Changed("sigma") {
		req.Options.Sigma = &transformFlags.sigma
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if id, err := uuid.NewV4(); err == nil {
		ctx = domain.WithRequestID(ctx, id.String())
	}

	res, err := svc.Transform(ctx, req)
	if err != nil {
		return err
	}

	out, err := base64.StdEncoding.DecodeString(res.Image)
	if err != nil {
		return fmt.Errorf("could not decode transformed image: %w", err)
	}

	if err := file.Write(transformFlags.out, out); err != nil {
		return err
	}

	log.Info().
		Str("in", transformFlags.in).
		Str("out", transformFlags.out).
		Int("bytes", len(out)).
		Msg("transformed image written")

	return nil
}
