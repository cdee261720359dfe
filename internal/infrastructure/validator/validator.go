// Package validator registers the application's custom rules with gin's
// binding engine and turns binding failures into readable messages.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mindnest/wellness/internal/domain/entity"
)

var registerOnce sync.Once

// Register installs the custom rules on gin's default validator. Safe to call repeatedly.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}

		// Use JSON tag names in error messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if name == "" {
				return fld.Name
			}
			if i := strings.IndexByte(name, ','); i >= 0 {
				name = name[:i]
			}
			if name == "-" {
				return fld.Name
			}
			return name
		})

		err = v.RegisterValidation("moodtag", func(fl validator.FieldLevel) bool {
			return entity.IsMoodTag(fl.Field().String())
		})
	})
	return err
}

// Describe renders a binding error as a single message
func Describe(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request body"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, e.Field()+" "+friendlyMessage(e))
	}
	sort.Strings(messages)
	return strings.Join(messages, "; ")
}

// MissingFields lists the fields a binding error reports as required but absent
func MissingFields(err error) []string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	var fields []string
	for _, e := range validationErrs {
		if e.Tag() == "required" {
			fields = append(fields, e.Field())
		}
	}
	return fields
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "alphanum":
		return "must contain only letters and digits"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must not have more than %s items", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "moodtag":
		return "must be one of: " + strings.Join(entity.MoodTags[:], ", ")
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
