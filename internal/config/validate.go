package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

// Error is a configuration problem, reported before any file is processed.
type Error struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *Error) Unwrap() error {
	return e.Err
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterValidation("globpattern", func(fl validator.FieldLevel) bool {
			return doublestar.ValidatePattern(fl.Field().String())
		})
		v.RegisterValidation("commenttemplate", func(fl validator.FieldLevel) bool {
			return validCommentTemplate(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate validates the configuration values.
// Returns an *Error describing every invalid field.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Source: c.Source, Err: err}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return &Error{Source: c.Source, Err: errors.New(strings.Join(msgs, "; "))}
}

func describe(fe validator.FieldError) string {
	field := fieldName(fe.Namespace())
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("invalid %s %q, must be one of: %s", field, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "lte":
		return fmt.Sprintf("%s must be %s %s, got %v", field, map[string]string{"gte": ">=", "lte": "<="}[fe.Tag()], fe.Param(), fe.Value())
	case "globpattern":
		return fmt.Sprintf("invalid glob pattern %q in %s", fe.Value(), field)
	case "commenttemplate":
		return fmt.Sprintf("invalid comment template %q in %s, must be one line containing {_path_}", fe.Value(), field)
	case "startswith":
		return fmt.Sprintf("extension %q in %s must start with %q", fe.Value(), field, fe.Param())
	case "required":
		return fmt.Sprintf("%s must not contain empty entries", field)
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

// fieldName maps a validator namespace such as "Config.ExcludeGlobs[0]" to
// the configuration key "exclude_globs".
func fieldName(ns string) string {
	ns = strings.TrimPrefix(ns, "Config.")
	if i := strings.IndexByte(ns, '['); i >= 0 {
		ns = ns[:i]
	}
	switch ns {
	case "ExcludeGlobs":
		return "exclude_globs"
	case "CustomCommentMap":
		return "custom_comment_map"
	case "DefaultMode":
		return "default_mode"
	case "Workers":
		return "workers"
	case "LogLevel":
		return "log_level"
	default:
		return ns
	}
}
