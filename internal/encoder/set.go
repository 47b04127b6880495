package encoder

import (
	"fmt"

	"carprice/internal/artifact"
)

// Set holds one encoder per categorical field. It is built once at startup
// and never mutated, so it is safe to share between requests.
type Set struct {
	encoders map[Field]Encoder
}

// NewSet requires an encoder for every field in Fields.
func NewSet(encoders map[Field]Encoder) (*Set, error) {
	own := make(map[Field]Encoder, len(Fields))
	for _, f := range Fields {
		enc, ok := encoders[f]
		if !ok || enc == nil {
			return nil, fmt.Errorf("missing encoder for field %q", f)
		}
		own[f] = enc
	}
	return &Set{encoders: own}, nil
}

// LoadSet loads the six encoder artifacts named in paths.
func LoadSet(paths artifact.Paths) (*Set, error) {
	files := map[Field]string{
		FieldBrand:        paths.Brand,
		FieldModel:        paths.Model,
		FieldFuel:         paths.Fuel,
		FieldSellerType:   paths.Seller,
		FieldTransmission: paths.Transmission,
		FieldOwner:        paths.Owner,
	}

	encoders := make(map[Field]Encoder, len(files))
	for _, f := range Fields {
		enc, err := Load(f, files[f])
		if err != nil {
			return nil, err
		}
		encoders[f] = enc
	}
	return NewSet(encoders)
}

// Encode looks label up in field's encoder.
func (s *Set) Encode(field Field, label string) (int, error) {
	enc, ok := s.encoders[field]
	if !ok {
		return 0, fmt.Errorf("no encoder for field %q", field)
	}
	return enc.Encode(label)
}

// Vocabulary returns the known labels of field, ordered by code, when its
// encoder can enumerate them.
func (s *Set) Vocabulary(field Field) []string {
	enc, ok := s.encoders[field].(interface{ Classes() []string })
	if !ok {
		return nil
	}
	return enc.Classes()
}
