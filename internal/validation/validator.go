// Package validation checks preference profiles and configuration structs
// before they are used. Failures are reported as *ValidationError naming the
// offending field by its JSON path (for example "constraints.price_max").
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

// WeightTolerance is how far the category weights may drift from 1.0.
const WeightTolerance = 0.05

// ErrInvalid matches every *ValidationError via errors.Is.
var ErrInvalid = errors.New("validation failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError describes the first rule a value broke.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// GetValidator returns the shared validator instance. Field names in errors
// follow json tags, then koanf tags, when present.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = fld.Tag.Get("koanf")
			}
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs struct-tag rules and returns the first failure.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "unknown", Tag: "unknown", Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Field:   fieldPath(fe.Namespace()),
		Tag:     fe.Tag(),
		Message: translate(fe),
	}
}

// ValidateProfile rejects a profile whose bounds are not positive, whose
// ranges are inverted or whose weights do not sum to 1.0 within tolerance.
func ValidateProfile(p domain.PreferenceProfile) error {
	if err := ValidateStruct(p); err != nil {
		return err
	}

	c := p.Constraints
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMax <= *c.PriceMin {
		return rangeError("constraints.price_max", "must be greater than constraints.price_min")
	}
	if c.AreaMin != nil && c.AreaMax != nil && *c.AreaMax <= *c.AreaMin {
		return rangeError("constraints.area_max", "must be greater than constraints.area_min")
	}
	if c.BedroomsMin != nil && c.BedroomsMax != nil && *c.BedroomsMax < *c.BedroomsMin {
		return rangeError("constraints.bedrooms_max", "must not be less than constraints.bedrooms_min")
	}
	if b := p.Building; b != nil && b.FloorMin != nil && b.FloorMax != nil && *b.FloorMax < *b.FloorMin {
		return rangeError("building.floor_max", "must not be less than building.floor_min")
	}

	// float sums like 0.2+0.85 land a hair above 1.05
	sum := p.Weights.Sum()
	if math.Abs(sum-1) > WeightTolerance+1e-9 {
		return &ValidationError{
			Field:   "weights",
			Tag:     "sum",
			Message: fmt.Sprintf("must sum to 1.0 ±%.2f, got %.3f", WeightTolerance, sum),
		}
	}
	return nil
}

func rangeError(field, msg string) error {
	return &ValidationError{Field: field, Tag: "range", Message: msg}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

var messageTemplates = map[string]string{
	"gt":    "must be greater than %s",
	"gte":   "must be greater than or equal to %s",
	"lt":    "must be less than %s",
	"lte":   "must be less than or equal to %s",
	"min":   "must be at least %s",
	"max":   "must be at most %s",
	"oneof": "must be one of: %s",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
