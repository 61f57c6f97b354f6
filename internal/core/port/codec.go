package port

import "image"

type ImageCodec interface {
	// Decode parses base64 text into an image and reports the detected source format.
	Decode(text string) (image.Image, string, error)
	// Encode serializes img and returns it as base64 text. sourceFormat is the format Decode reported.
	Encode(img image.Image, sourceFormat string) (string, error)
}
