package forms

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Document upload limits.
const (
	MaxUploadBytes = 5 << 20
	maxUploadLabel = "5 MB"
)

var allowedExtensions = map[string]struct{}{".pdf": {}, ".doc": {}, ".docx": {}}

// validatorInstance configures and returns the shared validator used by every form.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
			return digitsPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("checked", func(fl validator.FieldLevel) bool {
			return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
		})

		validateInst = v
	})

	return validateInst
}

// Violations maps a field's form name to its message.
type Violations map[string]string

// validateStruct runs the struct tags and renders each failure with labels.
func validateStruct(form any, labels map[string]string) Violations {
	out := Violations{}
	err := validatorInstance().Struct(form)
	if err == nil {
		return out
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out["form"] = err.Error()
		return out
	}
	for _, fe := range ves {
		name := fe.Field()
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = messageFor(fe, label(labels, name))
	}
	return out
}

func messageFor(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "present":
		return label + " is required."
	case "simple_email":
		return "Please enter a valid email address."
	case "digits":
		return label + " must contain digits only."
	case "min":
		return fmt.Sprintf("%s must be at least %s digits.", label, fe.Param())
	case "checked":
		return "Please accept the agreement to continue."
	}
	return fmt.Sprintf("%s is invalid.", label)
}

func label(labels map[string]string, name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	return name
}

// Upload is a file attached to a form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// checkUpload returns a message when u is not an accepted document, or "".
func checkUpload(u *Upload) string {
	if u == nil {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "Only PDF, DOC or DOCX files are accepted."
	}
	if u.Size > MaxUploadBytes {
		return "File must be " + maxUploadLabel + " or smaller."
	}
	return ""
}

// FirstViolation returns the message of the first violated field in order.
func FirstViolation(v Violations, order []string) string {
	for _, name := range order {
		if msg, ok := v[name]; ok {
			return msg
		}
	}
	for _, msg := range v {
		return msg
	}
	return ""
}
