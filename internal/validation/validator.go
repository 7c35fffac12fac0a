// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/epicura/internal/recommend"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// categoryKeyPattern matches cuisine keys such as "italian" or "middle_eastern".
var categoryKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// FieldError describes one field of a record that failed a rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RecordError collects every rule a record failed.
type RecordError struct {
	Fields []FieldError
}

func (e *RecordError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i := range e.Fields {
		msgs[i] = e.Fields[i].Message
	}
	return strings.Join(msgs, "; ")
}

// FieldNames returns the failing field names in report order.
func (e *RecordError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i := range e.Fields {
		names[i] = e.Fields[i].Field
	}
	return names
}

// HasTag reports whether any field failed the rule tag.
func (e *RecordError) HasTag(tag string) bool {
	for i := range e.Fields {
		if e.Fields[i].Tag == tag {
			return true
		}
	}
	return false
}

// GetValidator returns the shared validator with the domain rules registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		for tag, fn := range map[string]validator.Func{
			"dining_style": func(fl validator.FieldLevel) bool {
				return recommend.DiningStyle(fl.Field().String()).Valid()
			},
			"category_key": func(fl validator.FieldLevel) bool {
				return categoryKeyPattern.MatchString(fl.Field().String())
			},
			"sentiment": func(fl validator.FieldLevel) bool {
				v := fl.Field().Int()
				return v >= int64(recommend.SentimentAvoid) && v <= int64(recommend.SentimentLove)
			},
			"dimension": func(fl validator.FieldLevel) bool {
				return recommend.Dimension(fl.Field().String()).Valid()
			},
		} {
			// Fails only for an empty tag or nil func.
			_ = v.RegisterValidation(tag, fn) //nolint:errcheck // static registration
		}

		v.RegisterStructValidation(func(sl validator.StructLevel) {
			r, ok := sl.Current().Interface().(recommend.Rating)
			if ok && !r.Usable() {
				sl.ReportError(r.Overall, "Overall", "Overall", "usable_rating", "")
			}
		}, recommend.Rating{})

		validate = v
	})
	return validate
}

// ValidateStruct checks s against its validate tags.
//
// The result is a typed pointer: compare it with nil before converting it
// to error.
func ValidateStruct(s interface{}) *RecordError {
	return convert(GetValidator().Struct(s), "")
}

// ValidateVar checks a single value against tag, reporting failures under field.
func ValidateVar(field string, v interface{}, tag string) *RecordError {
	return convert(GetValidator().Var(v, tag), field)
}

func convert(err error, field string) *RecordError {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RecordError{Fields: []FieldError{{Field: field, Tag: "invalid", Message: err.Error()}}}
	}

	out := &RecordError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		out.Fields[i] = FieldError{
			Field:   name,
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(name, fe),
		}
	}
	return out
}

// messages renders a rule failure for a field and the rule parameter.
var messages = map[string]func(field, param string) string{
	"required":      func(f, _ string) string { return f + " is required" },
	"dining_style":  func(f, _ string) string { return f + " must be one of: fine, upscale, casual, fast_casual" },
	"category_key":  func(f, _ string) string { return f + " must be a lowercase category key" },
	"sentiment":     func(f, _ string) string { return f + " must be between -2 (avoid) and 2 (love)" },
	"dimension":     func(f, _ string) string { return f + " must be one of: food, service, vibe, value" },
	"usable_rating": func(f, _ string) string { return f + " or at least one positive dimension score is required" },
	"unique":        func(f, _ string) string { return f + " must not contain duplicates" },
	"oneof":         func(f, p string) string { return fmt.Sprintf("%s must be one of: %s", f, p) },
	"gte":           func(f, p string) string { return fmt.Sprintf("%s must be greater than or equal to %s", f, p) },
	"lte":           func(f, p string) string { return fmt.Sprintf("%s must be less than or equal to %s", f, p) },
	"min":           func(f, p string) string { return fmt.Sprintf("%s must be at least %s", f, p) },
	"max":           func(f, p string) string { return fmt.Sprintf("%s must be at most %s", f, p) },
}

func message(field string, fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		switch fe.Tag() {
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
	}
	if render, ok := messages[fe.Tag()]; ok {
		return render(field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
