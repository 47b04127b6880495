package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldValue is a raw submitted value. Forms always carry text; JSON clients
// may send either a string or a number, which is kept in its literal form.
type FieldValue string

// String returns the raw text.
func (v FieldValue) String() string {
	return string(v)
}

// UnmarshalJSON implements json.Unmarshaler interface
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FieldValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*v = FieldValue(n.String())
	return nil
}

// RawInput represents one prediction form submission before validation
type RawInput struct {
	Year         FieldValue `json:"year" form:"year" binding:"required"`
	KmDriven     FieldValue `json:"km_driven" form:"km_driven" binding:"required"`
	Mileage      FieldValue `json:"mileage" form:"mileage" binding:"required"`
	Engine       FieldValue `json:"engine" form:"engine" binding:"required"`
	MaxPower     FieldValue `json:"max_power" form:"max_power" binding:"required"`
	Seats        FieldValue `json:"seats" form:"seats" binding:"required"`
	Brand        FieldValue `json:"brand" form:"brand" binding:"required"`
	Model        FieldValue `json:"model" form:"model" binding:"required"`
	Fuel         FieldValue `json:"fuel" form:"fuel" binding:"required"`
	SellerType   FieldValue `json:"seller_type" form:"seller_type" binding:"required"`
	Transmission FieldValue `json:"transmission" form:"transmission" binding:"required"`
	Owner        FieldValue `json:"owner" form:"owner" binding:"required"`
}

// CatalogEntry is a (brand, model) pair from the reference dataset
type CatalogEntry struct {
	Brand string `json:"brand" db:"brand"`
	Model string `json:"model" db:"model"`
}

// PredictionResult holds the model output for one request
type PredictionResult struct {
	Raw     float64 `json:"raw"`
	Price   float64 `json:"price"`   // Raw rounded to 2 decimals
	Display string  `json:"display"` // Price as shown on the result page
}

// FormOptions holds everything the prediction form needs to render its dropdowns
type FormOptions struct {
	Brands        []string       `json:"brands"`
	Entries       []CatalogEntry `json:"entries"`
	Fuels         []string       `json:"fuels"`
	SellerTypes   []string       `json:"seller_types"`
	Transmissions []string       `json:"transmissions"`
	Owners        []string       `json:"owners"`
}
