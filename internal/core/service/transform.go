package service

import (
	"context"
	"fmt"
	"imagesvc/internal/core/domain"
	"imagesvc/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

type TransformService struct {
	codec            port.ImageCodec
	transformer      port.ImageTransformer
	recorder         port.StepRecorder
	defaultOperation domain.OperationName
}

func NewTransformService(codec port.ImageCodec, transformer port.ImageTransformer, recorder port.StepRecorder,
	defaultOperation domain.OperationName) *TransformService {
	return &TransformService{codec: codec, transformer: transformer, recorder: recorder,
		defaultOperation: defaultOperation}
}

// Transform runs validate, decode, transform and encode in order. The first failing stage ends the request and
// its error is returned as a *domain.StageError.
func (s *TransformService) Transform(ctx context.Context, request *domain.TransformRequest) (
	*domain.TransformResponse, error) {
	started := time.Now()

	opts := request.Options
	if opts.Operation == "" {
		opts.Operation = s.defaultOperation
	}

	l := log.With().
		Str("requestId", domain.RequestID(ctx)).
		Str("operation", string(opts.Operation)).
		Logger()

	l.Info().Msg("handling transformation request")

	if err := s.transformer.Validate(opts); err != nil {
		return nil, s.fail(ctx, domain.StageValidate, err)
	}
	s.ok(ctx, domain.StageValidate, fmt.Sprintf("transformation requested: %s", opts.Operation))

	img, format, err := s.codec.Decode(request.Image)
	if err != nil {
		return nil, s.fail(ctx, domain.StageDecode, err)
	}
	b := img.Bounds()
	s.ok(ctx, domain.StageDecode, fmt.Sprintf("decoded %s image of %dx%d", format, b.Dx(), b.Dy()))

	out, err := s.transformer.Transform(ctx, img, opts)
	if err != nil {
		return nil, s.fail(ctx, domain.StageTransform, err)
	}
	b = out.Bounds()
	s.ok(ctx, domain.StageTransform, fmt.Sprintf("applied %s, result is %dx%d", opts.Operation, b.Dx(), b.Dy()))

	encoded, err := s.codec.Encode(out, format)
	if err != nil {
		// Encoding valid output must not fail, so any failure here is an internal fault.
		return nil, s.fail(ctx, domain.StageEncode, domain.InternalError(domain.StageEncode, err))
	}
	s.ok(ctx, domain.StageEncode, fmt.Sprintf("encoded result to %d base64 characters", len(encoded)))

	s.ok(ctx, domain.StageRespond, "returning transformed image")

	l.Info().Dur("elapsed", time.Since(started)).Msg("transformation request completed")

	return &domain.TransformResponse{Image: encoded}, nil
}

func (s *TransformService) ok(ctx context.Context, stage domain.Stage, message string) {
	s.recorder.Record(ctx, domain.LogRecord{
		Timestamp: time.Now(),
		RequestID: domain.RequestID(ctx),
		Step:      stage,
		Status:    domain.StatusOK,
		Message:   message,
	})
}

func (s *TransformService) fail(ctx context.Context, stage domain.Stage, err error) error {
	se := domain.Classify(stage, err)

	s.recorder.Record(ctx, domain.LogRecord{
		Timestamp: time.Now(),
		RequestID: domain.RequestID(ctx),
		Step:      stage,
		Status:    domain.StatusError,
		Message:   fmt.Sprintf("%s: %s", se.Kind, se.Error()),
	})
	s.recorder.Record(ctx, domain.LogRecord{
		Timestamp: time.Now(),
		RequestID: domain.RequestID(ctx),
		Step:      domain.StageRespond,
		Status:    domain.StatusError,
		Message:   fmt.Sprintf("request failed at %s stage", stage),
	})

	log.Warn().
		Err(se).
		Str("requestId", domain.RequestID(ctx)).
		Str("stage", string(stage)).
		Str("kind", string(se.Kind)).
		Msg("transformation request failed")

	return se
}
