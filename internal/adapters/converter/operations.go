package converter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"imagesvc/internal/core/domain"

	"github.com/disintegration/imaging"
)

const imageHint = "<Base64-encoded-image>"

type grayscale struct{}

func (grayscale) Name() domain.OperationName { return domain.Grayscale }

func (grayscale) Validate(domain.Options) error { return nil }

func (grayscale) Apply(img image.Image, _ domain.Options) (image.Image, error) {
	return imaging.Grayscale(img), nil
}

func (grayscale) Usage() map[string]string {
	return map[string]string{"image": imageHint, "transformation_type": string(domain.Grayscale)}
}

// rotate turns the image counter-clockwise and expands the canvas to fit, filling with transparency.
type rotate struct{}

func (rotate) Name() domain.OperationName { return domain.Rotate }

func (rotate) Validate(opts domain.Options) error {
	if opts.RotationAngle == nil {
		return errors.New("rotation angle must be provided for rotate transformation")
	}
	return nil
}

func (rotate) Apply(img image.Image, opts domain.Options) (image.Image, error) {
	angle := *opts.RotationAngle % 360
	if angle == 0 {
		return imaging.Clone(img), nil
	}
	return imaging.Rotate(img, float64(angle), color.Transparent), nil
}

func (rotate) Usage() map[string]string {
	return map[string]string{
		"image":               imageHint,
		"transformation_type": string(domain.Rotate),
		"rotation_angle":      "<integer>",
	}
}

type resize struct {
	maxWidth  int
	maxHeight int
}

func (resize) Name() domain.OperationName { return domain.Resize }

func (resize) Validate(opts domain.Options) error {
	if opts.Width == nil || opts.Height == nil {
		return errors.New("width and height must be provided for resize transformation")
	}
	return nil
}

func (r resize) Apply(img image.Image, opts domain.Options) (image.Image, error) {
	w, h := *opts.Width, *opts.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("width and height must be positive integers for resizing, got %dx%d", w, h)
	}

	if w > r.maxWidth || h > r.maxHeight {
		return nil, fmt.Errorf("resize target %dx%d exceeds the maximum of %dx%d", w, h, r.maxWidth, r.maxHeight)
	}

	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

func (resize) Usage() map[string]string {
	return map[string]string{
		"image":               imageHint,
		"transformation_type": string(domain.Resize),
		"width":               "<positive integer>",
		"height":              "<positive integer>",
	}
}

type flip struct {
	vertical bool
}

func (f flip) Name() domain.OperationName {
	if f.vertical {
		return domain.FlipVertical
	}
	return domain.FlipHorizontal
}

func (flip) Validate(domain.Options) error { return nil }

func (f flip) Apply(img image.Image, _ domain.Options) (image.Image, error) {
	if f.vertical {
		return imaging.FlipV(img), nil
	}
	return imaging.FlipH(img), nil
}

func (f flip) Usage() map[string]string {
	return map[string]string{"image": imageHint, "transformation_type": string(f.Name())}
}

type blur struct {
	defaultSigma float64
}

func (blur) Name() domain.OperationName { return domain.Blur }

func (blur) Validate(domain.Options) error { return nil }

func (b blur) Apply(img image.Image, opts domain.Options) (image.Image, error) {
	sigma := b.defaultSigma
	if opts.Sigma != nil {
		sigma = *opts.Sigma
	}

	if sigma < 0 {
		return nil, fmt.Errorf("blur sigma must not be negative, got %g", sigma)
	}

	return imaging.Blur(img, sigma), nil
}

func (blur) Usage() map[string]string {
	return map[string]string{
		"image":               imageHint,
		"transformation_type": string(domain.Blur),
		"sigma":               "<non-negative number, optional>",
	}
}
