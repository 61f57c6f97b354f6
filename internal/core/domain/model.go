package domain

import "time"

type OperationName string

const (
	Grayscale      OperationName = "grayscale"
	Rotate         OperationName = "rotate"
	Resize         OperationName = "resize"
	FlipHorizontal OperationName = "flip_horizontal"
	FlipVertical   OperationName = "flip_vertical"
	Blur           OperationName = "blur"
)

// Options carries the operation and its optional parameters. Unset parameters are nil so an explicit zero
// can be told apart from a missing value.
type Options struct {
	Operation     OperationName
	RotationAngle *int
	Width         *int
	Height        *int
	Sigma         *float64
}

type TransformRequest struct {
	Image   string
	Options Options
}

type TransformResponse struct {
	Image string `json:"image"`
}

type ErrorResponse struct {
	Detail        string            `json:"detail"`
	Code          int               `json:"code"`
	CorrectFormat map[string]string `json:"correct_format,omitempty"`
}

type Stage string

const (
	StageValidate  Stage = "validate"
	StageDecode    Stage = "decode"
	StageTransform Stage = "transform"
	StageEncode    Stage = "encode"
	StageRespond   Stage = "respond"
)

type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// LogRecord is one append-only entry of the step journal.
type LogRecord struct {
	Timestamp time.Time
	RequestID string
	Step      Stage
	Status    Status
	Message   string
}
