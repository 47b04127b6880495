package model

// PredictResponse represents the JSON API prediction response
type PredictResponse struct {
	Price   float64 `json:"price"`
	Display string  `json:"display"`
	Raw     float64 `json:"raw"`
	Took    int64   `json:"took_ms"` // Response time in milliseconds
}

// ErrorResponse represents a JSON API error
type ErrorResponse struct {
	Error  string   `json:"error"`
	Kind   string   `json:"kind,omitempty"`   // input_format, unknown_category, missing_fields
	Field  string   `json:"field,omitempty"`  // Offending field, when there is exactly one
	Fields []string `json:"fields,omitempty"` // All offending fields
}

// Error kinds reported to API clients
const (
	ErrorKindInputFormat     = "input_format"
	ErrorKindUnknownCategory = "unknown_category"
	ErrorKindMissingFields   = "missing_fields"
)

// BrandsResponse lists catalog brands
type BrandsResponse struct {
	Brands []string `json:"brands"`
}

// ModelsResponse lists catalog models of one brand
type ModelsResponse struct {
	Brand  string   `json:"brand"`
	Models []string `json:"models"`
}

// LoginRequest represents the login and register forms
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}
