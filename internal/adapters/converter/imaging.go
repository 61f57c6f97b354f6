package converter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"imagesvc/internal/core/domain"
	"strings"

	"github.com/rs/zerolog/log"
)

// Limits bounds the images and parameters the converter accepts.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	// BlurSigma is used when a blur request carries no sigma.
	BlurSigma float64
}

type ImagingConverter struct {
	registry *domain.OperationRegistry
	limits   Limits
}

// NewImagingConverter registers the enabled operations. Naming an unknown operation is a configuration error.
func NewImagingConverter(enabled []string, limits Limits) (*ImagingConverter, error) {
	if limits.MaxWidth <= 0 || limits.MaxHeight <= 0 {
		return nil, errors.New("max width and height must be positive")
	}

	available := map[domain.OperationName]domain.Operation{}
	for _, op := range []domain.Operation{
		grayscale{},
		rotate{},
		resize{maxWidth: limits.MaxWidth, maxHeight: limits.MaxHeight},
		flip{},
		flip{vertical: true},
		blur{defaultSigma: limits.BlurSigma},
	} {
		available[op.Name()] = op
	}

	registry := &domain.OperationRegistry{}
	for _, name := range enabled {
		op, ok := available[domain.ParseOperationName(name)]
		if !ok {
			return nil, fmt.Errorf("unknown operation %q", name)
		}
		registry.Register(op)
	}

	if len(registry.List()) == 0 {
		return nil, errors.New("no operation enabled")
	}

	return &ImagingConverter{registry: registry, limits: limits}, nil
}

// Operations lists the enabled operation names.
func (c *ImagingConverter) Operations() []string {
	return c.registry.List()
}

func (c *ImagingConverter) Validate(opts domain.Options) error {
	op, err := c.lookup(opts.Operation)
	if err != nil {
		return err
	}

	if err := op.Validate(opts); err != nil {
		return domain.ValidationError(err, op.Usage())
	}

	return nil
}

func (c *ImagingConverter) Transform(ctx context.Context, img image.Image, opts domain.Options) (image.Image, error) {
	op, err := c.lookup(opts.Operation)
	if err != nil {
		return nil, err
	}

	if err := op.Validate(opts); err != nil {
		return nil, domain.ValidationError(err, op.Usage())
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("transformation aborted: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, domain.TransformError(fmt.Errorf("image has unsupported dimensions %dx%d", b.Dx(), b.Dy()))
	}

	if b.Dx() > c.limits.MaxWidth || b.Dy() > c.limits.MaxHeight {
		return nil, domain.TransformError(fmt.Errorf("image of %dx%d exceeds the maximum of %dx%d",
			b.Dx(), b.Dy(), c.limits.MaxWidth, c.limits.MaxHeight))
	}

	out, err := op.Apply(img, opts)
	if err != nil {
		return nil, domain.TransformError(fmt.Errorf("invalid transformation parameter: %w", err))
	}

	log.Debug().
		Str("operation", string(op.Name())).
		Int("width", out.Bounds().Dx()).
		Int("height", out.Bounds().Dy()).
		Msg("transformation finished")

	return out, nil
}

func (c *ImagingConverter) lookup(name domain.OperationName) (domain.Operation, error) {
	op, err := c.registry.Get(name)
	if err != nil {
		return nil, domain.ValidationError(
			fmt.Errorf("invalid transformation type %q, expected one of: %s", name, strings.Join(c.registry.List(), ", ")),
			map[string]string{
				"image":               imageHint,
				"transformation_type": "<" + strings.Join(c.registry.List(), "|") + ">",
			})
	}
	return op, nil
}
