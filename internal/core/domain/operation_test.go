package domain

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockOperation struct {
	name OperationName
}

func (m *MockOperation) Name() OperationName {
	return m.name
}

func (m *MockOperation) Validate(opts Options) error {
	return nil
}

func (m *MockOperation) Apply(img image.Image, opts Options) (image.Image, error) {
	return img, nil
}

func (m *MockOperation) Usage() map[string]string {
	return map[string]string{"image": "<Base64-encoded-image>"}
}

func TestRegister(t *testing.T) {
	r := &OperationRegistry{}
	r.Register(&MockOperation{name: Grayscale})

	assert.Equal(t, 1, len(r.operations))
}

func TestGetNotInitialized(t *testing.T) {
	r := &OperationRegistry{}

	_, err := r.Get(Grayscale)
	assert.ErrorIs(t, err, ErrRegistryNotCreated)
}

func TestGetOperationNotFound(t *testing.T) {
	r := &OperationRegistry{}
	r.Register(&MockOperation{name: Grayscale})

	_, err := r.Get(Rotate)
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestGetOperationFound(t *testing.T) {
	r := &OperationRegistry{}
	r.Register(&MockOperation{name: Rotate})

	op, err := r.Get(Rotate)
	require.NoError(t, err)
	assert.Equal(t, Rotate, op.Name())
}

func TestList(t *testing.T) {
	r := &OperationRegistry{}
	r.Register(&MockOperation{name: Resize})
	r.Register(&MockOperation{name: Blur})
	r.Register(&MockOperation{name: Grayscale})

	assert.Equal(t, []string{"blur", "grayscale", "resize"}, r.List())
}

func TestParseOperationName(t *testing.T) {
	tests := []struct {
		description string
		input       string
		want        OperationName
	}{
		{description: "already normalized", input: "rotate", want: Rotate},
		{description: "upper case", input: "GrayScale", want: Grayscale},
		{description: "surrounding spaces", input: "  resize ", want: Resize},
		{description: "empty", input: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseOperationName(tc.input))
		})
	}
}

func TestStageErrorIs(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name   string
		err    error
		target error
		stage  Stage
	}{
		{name: "validation", err: ValidationError(cause, nil), target: ErrValidation, stage: StageValidate},
		{name: "decode", err: DecodeError(cause), target: ErrDecode, stage: StageDecode},
		{name: "transform", err: TransformError(cause), target: ErrTransform, stage: StageTransform},
		{name: "internal", err: InternalError(StageEncode, cause), target: ErrInternal, stage: StageEncode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)

			assert.ErrorIs(t, wrapped, tc.target)
			assert.ErrorIs(t, wrapped, cause)
			assert.Equal(t, "boom", tc.err.Error())

			var se *StageError
			require.ErrorAs(t, wrapped, &se)
			assert.Equal(t, tc.stage, se.Stage)
		})
	}
}

func TestStageErrorDoesNotMatchOtherKinds(t *testing.T) {
	err := DecodeError(errors.New("bad"))

	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrTransform)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestClassify(t *testing.T) {
	typed := TransformError(errors.New("too wide"))
	assert.Same(t, typed, Classify(StageTransform, fmt.Errorf("wrapped: %w", typed)))

	plain := Classify(StageEncode, errors.New("disk full"))
	assert.Equal(t, KindInternal, plain.Kind)
	assert.Equal(t, StageEncode, plain.Stage)
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(ctx))
}
