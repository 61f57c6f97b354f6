package port

import (
	"context"
	"imagesvc/internal/core/domain"
)

type ImageService interface {
	// Transform decodes, transforms and re-encodes the image of a request.
	Transform(ctx context.Context, request *domain.TransformRequest) (*domain.TransformResponse, error)
}
