package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"carprice/internal/encoder"
	"carprice/internal/features"
	"carprice/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var fieldNamesOnce sync.Once

// useFieldNames makes binding errors name fields the way clients send them
func useFieldNames() {
	fieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// describeError maps a binding or prediction error to an HTTP status and body.
// Anything that is not the client's fault becomes a generic 500.
func describeError(err error) (int, model.ErrorResponse) {
	var validationErrs validator.ValidationErrors
	var categoryErr *encoder.UnknownCategoryError

	switch {
	case errors.As(err, &validationErrs):
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fe.Field())
		}
		return http.StatusUnprocessableEntity, newErrorResponse(
			"Missing fields: "+strings.Join(fields, ", "),
			model.ErrorKindMissingFields,
			fields,
		)

	case errors.As(err, &categoryErr):
		return http.StatusUnprocessableEntity, newErrorResponse(
			err.Error(),
			model.ErrorKindUnknownCategory,
			[]string{string(categoryErr.Field)},
		)

	default:
		if fields := formatFields(err); len(fields) > 0 {
			return http.StatusUnprocessableEntity, newErrorResponse(
				err.Error(),
				model.ErrorKindInputFormat,
				fields,
			)
		}
		return http.StatusInternalServerError, model.ErrorResponse{Error: "Prediction failed"}
	}
}

func newErrorResponse(msg, kind string, fields []string) model.ErrorResponse {
	resp := model.ErrorResponse{Error: msg, Kind: kind, Fields: fields}
	if len(fields) == 1 {
		resp.Field = fields[0]
	}
	return resp
}

// formatFields lists the fields of every *features.InputFormatError in err
func formatFields(err error) []string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	var fields []string
	for _, e := range errs {
		var formatErr *features.InputFormatError
		if errors.As(e, &formatErr) {
			fields = append(fields, formatErr.Field)
		}
	}
	return fields
}
