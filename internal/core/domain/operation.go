package domain

import (
	"image"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

type Operation interface {
	// Name returns the identifier clients use in transformation_type.
	Name() OperationName
	// Validate checks that the parameters the operation needs are present.
	Validate(opts Options) error
	// Apply runs the operation and returns a new image, leaving the source untouched.
	Apply(img image.Image, opts Options) (image.Image, error)
	// Usage describes the request shape the operation expects.
	Usage() map[string]string
}

type OperationRegistry struct {
	operations map[OperationName]Operation
}

func (r *OperationRegistry) Register(op Operation) {
	if r.operations == nil {
		r.operations = make(map[OperationName]Operation)
	}

	log.Info().Str("operation", string(op.Name())).Msg("adding operation to registry")
	r.operations[op.Name()] = op
}

func (r *OperationRegistry) Get(name OperationName) (Operation, error) {
	log.Debug().Str("operation", string(name)).Msg("fetching operation from registry")

	if r.operations == nil {
		return nil, ErrRegistryNotCreated
	}

	op, ok := r.operations[name]
	if !ok {
		return nil, ErrOperationNotFound
	}

	return op, nil
}

// List returns the registered operation names in sorted order.
func (r *OperationRegistry) List() []string {
	keys := make([]string, 0, len(r.operations))
	for k := range r.operations {
		keys = append(keys, string(k))
	}

	sort.Strings(keys)

	return keys
}

func ParseOperationName(s string) OperationName {
	return OperationName(strings.ToLower(strings.TrimSpace(s)))
}
