// Package features turns a submitted form into the numeric vector the
// regression model was trained on.
package features

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"carprice/internal/artifact"
	"carprice/internal/encoder"
	"carprice/internal/model"
)

// Size is the number of model inputs.
const Size = 12

// Vector is one model input row. Slot meaning is given by Order.
type Vector [Size]float64

// Order is the column order the model was trained with. It must only ever
// change together with the model artifact.
var Order = [Size]string{
	"year",
	"km_driven",
	"fuel",
	"seller_type",
	"transmission",
	"owner",
	"mileage",
	"engine",
	"max_power",
	"seats",
	"brand",
	"model",
}

// Slots, by position in Order.
const (
	SlotYear = iota
	SlotKmDriven
	SlotFuel
	SlotSellerType
	SlotTransmission
	SlotOwner
	SlotMileage
	SlotEngine
	SlotMaxPower
	SlotSeats
	SlotBrand
	SlotModel
)

// InputFormatError reports a numeric field whose text could not be parsed.
type InputFormatError struct {
	Field string
	Value string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: not a number", e.Field, e.Value)
}

// CategoryEncoder is the lookup the builder needs from an encoder set.
type CategoryEncoder interface {
	Encode(field encoder.Field, label string) (int, error)
}

// Builder assembles vectors. It holds no per-request state.
type Builder struct {
	encoders CategoryEncoder
}

// NewBuilder creates a builder backed by encoders.
func NewBuilder(encoders CategoryEncoder) *Builder {
	return &Builder{encoders: encoders}
}

// Build coerces numeric fields, encodes categorical ones and places both in
// Order. Every numeric field is checked before any encoding happens; all
// format problems come back together, each matchable as *InputFormatError.
func (b *Builder) Build(in model.RawInput) (Vector, error) {
	var v Vector

	p := &parser{}
	year := p.integer("year", in.Year)
	km := p.integer("km_driven", in.KmDriven)
	mileage := p.float("mileage", in.Mileage)
	engine := p.float("engine", in.Engine)
	maxPower := p.float("max_power", in.MaxPower)
	seats := p.integer("seats", in.Seats)
	if err := p.err(); err != nil {
		return Vector{}, err
	}

	codes := make(map[encoder.Field]int, len(encoder.Fields))
	labels := map[encoder.Field]string{
		encoder.FieldBrand:        in.Brand.String(),
		encoder.FieldModel:        in.Model.String(),
		encoder.FieldFuel:         in.Fuel.String(),
		encoder.FieldSellerType:   in.SellerType.String(),
		encoder.FieldTransmission: in.Transmission.String(),
		encoder.FieldOwner:        in.Owner.String(),
	}
	for _, f := range encoder.Fields {
		code, err := b.encoders.Encode(f, labels[f])
		if err != nil {
			return Vector{}, err
		}
		codes[f] = code
	}

	v[SlotYear] = float64(year)
	v[SlotKmDriven] = float64(km)
	v[SlotFuel] = float64(codes[encoder.FieldFuel])
	v[SlotSellerType] = float64(codes[encoder.FieldSellerType])
	v[SlotTransmission] = float64(codes[encoder.FieldTransmission])
	v[SlotOwner] = float64(codes[encoder.FieldOwner])
	v[SlotMileage] = mileage
	v[SlotEngine] = engine
	v[SlotMaxPower] = maxPower
	v[SlotSeats] = float64(seats)
	v[SlotBrand] = float64(codes[encoder.FieldBrand])
	v[SlotModel] = float64(codes[encoder.FieldModel])
	return v, nil
}

type parser struct {
	errs []error
}

func (p *parser) integer(field string, raw model.FieldValue) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw.String()), 10, 64)
	if err != nil {
		p.errs = append(p.errs, &InputFormatError{Field: field, Value: raw.String()})
		return 0
	}
	return n
}

func (p *parser) float(field string, raw model.FieldValue) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw.String()), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.errs = append(p.errs, &InputFormatError{Field: field, Value: raw.String()})
		return 0
	}
	return f
}

func (p *parser) err() error {
	switch len(p.errs) {
	case 0:
		return nil
	case 1:
		return p.errs[0]
	default:
		return errors.Join(p.errs...)
	}
}

type featureList struct {
	Features []string `yaml:"features"`
}

// CheckOrder fails unless names equals Order exactly.
func CheckOrder(names []string) error {
	if !slices.Equal(names, Order[:]) {
		return fmt.Errorf("feature order %v does not match %v", names, Order)
	}
	return nil
}

// LoadOrder reads the trained feature list artifact and verifies it matches
// Order. A mismatch is an artifact error: predictions would be silently wrong.
func LoadOrder(path string) error {
	var fl featureList
	if err := artifact.Load(path, &fl); err != nil {
		return err
	}
	if err := CheckOrder(fl.Features); err != nil {
		return &artifact.LoadError{Path: path, Err: err}
	}
	return nil
}
