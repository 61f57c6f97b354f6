package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"imagesvc/internal/core/domain"
	"strings"

	// Registered decoders, in addition to the ones imaging pulls in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	OutputPNG    = "png"
	OutputJPEG   = "jpeg"
	OutputSource = "source"
)

var (
	errEmptyInput    = errors.New("image is empty")
	errInvalidBase64 = errors.New("image is not valid base64")
	errDataURI       = errors.New("malformed data URI, expected data:<mime>;base64,<data>")
)

// Base64Codec converts between base64 text and decoded images.
type Base64Codec struct {
	outputFormat string
	jpegQuality  int
	maxPixels    int
}

// NewBase64Codec creates a codec writing outputFormat. maxPixels of zero disables the size guard.
func NewBase64Codec(outputFormat string, jpegQuality, maxPixels int) (*Base64Codec, error) {
	switch outputFormat {
	case OutputPNG, OutputJPEG, OutputSource:
	default:
		return nil, fmt.Errorf("unsupported output format %q", outputFormat)
	}

	if jpegQuality < 1 || jpegQuality > 100 {
		return nil, fmt.Errorf("jpeg quality must be within 1-100, got %d", jpegQuality)
	}

	return &Base64Codec{outputFormat: outputFormat, jpegQuality: jpegQuality, maxPixels: maxPixels}, nil
}

func (c *Base64Codec) Decode(text string) (image.Image, string, error) {
	raw, err := decodeBase64(text)
	if err != nil {
		return nil, "", domain.DecodeError(err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(raw)).Msg("image header not recognized")
		return nil, "", domain.DecodeError(fmt.Errorf(
			"invalid image file, ensure the image is a valid base64 encoded string representing an image: %w", err))
	}

	if c.maxPixels > 0 && cfg.Width*cfg.Height > c.maxPixels {
		return nil, "", domain.DecodeError(fmt.Errorf("image of %dx%d exceeds the limit of %d pixels",
			cfg.Width, cfg.Height, c.maxPixels))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", domain.DecodeError(fmt.Errorf("error decoding %s image: %w", format, err))
	}

	log.Debug().Str("format", format).Int("width", cfg.Width).Int("height", cfg.Height).Msg("decoded image")

	return img, format, nil
}

func (c *Base64Codec) Encode(img image.Image, sourceFormat string) (string, error) {
	format := c.targetFormat(sourceFormat)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(c.jpegQuality)); err != nil {
		return "", fmt.Errorf("error encoding %s image: %w", format, err)
	}

	log.Debug().Str("format", format.String()).Int("bytes", buf.Len()).Msg("encoded image")

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// targetFormat resolves the configured output format. Source formats imaging cannot write fall back to PNG.
func (c *Base64Codec) targetFormat(sourceFormat string) imaging.Format {
	switch c.outputFormat {
	case OutputJPEG:
		return imaging.JPEG
	case OutputSource:
		f, err := imaging.FormatFromExtension(sourceFormat)
		if err != nil {
			return imaging.PNG
		}
		return f
	default:
		return imaging.PNG
	}
}

func decodeBase64(text string) ([]byte, error) {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, errDataURI
		}
		s = data
	}

	if s == "" {
		return nil, errEmptyInput
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return raw, nil
	}

	if !strings.HasSuffix(s, "=") {
		if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
			return raw, nil
		}
	}

	return nil, fmt.Errorf("%w: %w", errInvalidBase64, err)
}
