package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"imagesvc/internal/core/domain"
	"imagesvc/internal/core/port"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

func init() {
	// Report JSON field names in validation errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type transformRequest struct {
	Image              string   `json:"image" binding:"required"`
	TransformationType string   `json:"transformation_type"`
	RotationAngle      *int     `json:"rotation_angle"`
	Width              *int     `json:"width" binding:"omitempty,gte=0"`
	Height             *int     `json:"height" binding:"omitempty,gte=0"`
	Sigma              *float64 `json:"sigma" binding:"omitempty,gte=0"`
}

func (r transformRequest) toDomain() *domain.TransformRequest {
	return &domain.TransformRequest{
		Image: r.Image,
		Options: domain.Options{
			Operation:     domain.ParseOperationName(r.TransformationType),
			RotationAngle: r.RotationAngle,
			Width:         r.Width,
			Height:        r.Height,
			Sigma:         r.Sigma,
		},
	}
}

type HTTP struct {
	service       port.ImageService
	recorder      port.StepRecorder
	maxBodyBytes  int64
	correctFormat map[string]string
}

// NewHTTP creates the HTTP handlers. operations lists the enabled operations and is only used to describe the
// expected request shape in validation errors.
func NewHTTP(service port.ImageService, recorder port.StepRecorder, maxBodyBytes int64,
	operations []string) *HTTP {
	return &HTTP{
		service:      service,
		recorder:     recorder,
		maxBodyBytes: maxBodyBytes,
		correctFormat: map[string]string{
			"image":               "<Base64-encoded-image>",
			"transformation_type": "<" + strings.Join(operations, "|") + ">",
			"rotation_angle":      "<integer>",
			"width":               "<positive integer>",
			"height":              "<positive integer>",
			"sigma":               "<non-negative number>",
		},
	}
}

func (h *HTTP) Health(c *gin.Context) {
	log.Debug().Msg("health check endpoint was called")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTP) Transform(c *gin.Context) {
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var req transformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		se := domain.ValidationError(bindingError(err), h.correctFormat)
		h.recorder.Record(ctx, domain.LogRecord{
			RequestID: domain.RequestID(ctx),
			Step:      domain.StageValidate,
			Status:    domain.StatusError,
			Message:   fmt.Sprintf("%s: %s", se.Kind, se.Error()),
		})
		h.respondError(c, se)
		return
	}

	res, err := h.service.Transform(ctx, req.toDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *HTTP) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := StatusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = "internal server error: " + detail
	}

	res := domain.ErrorResponse{Detail: detail, Code: status}

	var se *domain.StageError
	if errors.As(err, &se) {
		res.CorrectFormat = se.Hint
	}

	c.JSON(status, res)
}

// StatusFor maps a processing error to its HTTP status. Unclassified errors are internal faults.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTransform):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func bindingError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return errors.New("request body must be a JSON object")
		}
		return fmt.Errorf("field '%s' must be of type %s", typeErr.Field, typeErr.Type)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("malformed JSON body at offset %d", syntaxErr.Offset)
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.New("malformed JSON body, unexpected end of input")
	}

	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}

	return fmt.Errorf("malformed request body: %w", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing required field '%s'", fe.Field())
	case "gte":
		return fmt.Sprintf("field '%s' must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag())
	}
}
