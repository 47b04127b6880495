// Package encoder holds the category encoders produced at training time:
// one immutable label to integer code table per categorical field.
package encoder

import (
	"fmt"
	"sort"

	"carprice/internal/artifact"
	"carprice/internal/utils"
)

// Field names a categorical input.
type Field string

const (
	FieldBrand        Field = "brand"
	FieldModel        Field = "model"
	FieldFuel         Field = "fuel"
	FieldSellerType   Field = "seller_type"
	FieldTransmission Field = "transmission"
	FieldOwner        Field = "owner"
)

// Fields lists every categorical field in the order they are encoded.
var Fields = []Field{
	FieldBrand,
	FieldModel,
	FieldFuel,
	FieldSellerType,
	FieldTransmission,
	FieldOwner,
}

// UnknownCategoryError is returned when a label is outside the vocabulary
// an encoder was trained on.
type UnknownCategoryError struct {
	Field Field
	Label string
	// Within narrows the message when the label is valid on its own but not
	// in combination with another value, e.g. a model under the wrong brand.
	Within     string
	Suggestion string
}

func (e *UnknownCategoryError) Error() string {
	msg := fmt.Sprintf("unknown %s %q", e.Field, e.Label)
	if e.Within != "" {
		msg += " for " + e.Within
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Encoder maps a label of one field to its trained code.
type Encoder interface {
	Encode(label string) (int, error)
}

// LabelEncoder is a fixed label to code table.
type LabelEncoder struct {
	field Field
	codes map[string]int
}

// NewLabelEncoder builds an encoder where each class's code is its index,
// matching how LabelEncoder.classes_ is laid out after fitting.
func NewLabelEncoder(field Field, classes []string) (*LabelEncoder, error) {
	codes := make(map[string]int, len(classes))
	for i, class := range classes {
		if _, dup := codes[class]; dup {
			return nil, fmt.Errorf("%s: duplicate class %q", field, class)
		}
		codes[class] = i
	}
	return &LabelEncoder{field: field, codes: codes}, nil
}

// NewLabelEncoderFromMapping builds an encoder from an explicit table.
// Codes must be unique within the field.
func NewLabelEncoderFromMapping(field Field, mapping map[string]int) (*LabelEncoder, error) {
	codes := make(map[string]int, len(mapping))
	seen := make(map[int]string, len(mapping))
	for label, code := range mapping {
		if prev, dup := seen[code]; dup {
			return nil, fmt.Errorf("%s: code %d assigned to both %q and %q", field, code, prev, label)
		}
		seen[code] = label
		codes[label] = code
	}
	return &LabelEncoder{field: field, codes: codes}, nil
}

// Encode returns the code for label or an *UnknownCategoryError.
func (e *LabelEncoder) Encode(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		err := &UnknownCategoryError{Field: e.field, Label: label}
		if s, found := utils.SuggestLabel(label, e.Classes()); found {
			err.Suggestion = s
		}
		return 0, err
	}
	return code, nil
}

// Classes returns the vocabulary ordered by code.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, 0, len(e.codes))
	for label := range e.codes {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool {
		return e.codes[out[i]] < e.codes[out[j]]
	})
	return out
}

// Len returns the vocabulary size.
func (e *LabelEncoder) Len() int {
	return len(e.codes)
}

// fileFormat is the on-disk encoder artifact.
type fileFormat struct {
	Field   string         `yaml:"field"`
	Classes []string       `yaml:"classes"`
	Mapping map[string]int `yaml:"mapping"`
}

// Load reads an encoder artifact for field from path.
func Load(field Field, path string) (*LabelEncoder, error) {
	var f fileFormat
	if err := artifact.Load(path, &f); err != nil {
		return nil, err
	}
	if f.Field != "" && Field(f.Field) != field {
		return nil, artifact.Errorf(path, "encoder is for field %q, expected %q", f.Field, field)
	}

	var (
		enc *LabelEncoder
		err error
	)
	switch {
	case len(f.Classes) > 0 && len(f.Mapping) > 0:
		return nil, artifact.Errorf(path, "encoder defines both classes and mapping")
	case len(f.Classes) > 0:
		enc, err = NewLabelEncoder(field, f.Classes)
	case len(f.Mapping) > 0:
		enc, err = NewLabelEncoderFromMapping(field, f.Mapping)
	default:
		return nil, artifact.Errorf(path, "encoder has an empty vocabulary")
	}
	if err != nil {
		return nil, &artifact.LoadError{Path: path, Err: err}
	}
	return enc, nil
}
