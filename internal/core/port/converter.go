package port

import (
	"context"
	"image"
	"imagesvc/internal/core/domain"
)

type ImageTransformer interface {
	// Validate checks that the requested operation is enabled and that its parameters are complete.
	Validate(opts domain.Options) error
	// Transform applies the requested operation to img and returns the result as a new image.
	Transform(ctx context.Context, img image.Image, opts domain.Options) (image.Image, error)
}
