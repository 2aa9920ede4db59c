package validation

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// IdentifierPattern matches external student identifiers such as STU-1234.
	IdentifierPattern = `^[A-Za-z0-9][A-Za-z0-9_-]{0,99}$`

	UsernamePattern = `^[A-Za-z0-9@.+_-]{3,150}$`

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Identifier *regexp.Regexp
	Username   *regexp.Regexp
}{
	Identifier: regexp.MustCompile(IdentifierPattern),
	Username:   regexp.MustCompile(UsernamePattern),
}

var (
	feeStatuses = map[string]bool{"paid": true, "pending": true, "late": true}
	roles       = map[string]bool{"staff": true, "student": true, "parent": true}
)

// Register installs the custom struct tags on v.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"identifier": func(fl validator.FieldLevel) bool {
			return CompiledPatterns.Identifier.MatchString(fl.Field().String())
		},
		"username": func(fl validator.FieldLevel) bool {
			return CompiledPatterns.Username.MatchString(fl.Field().String())
		},
		"feestatus": func(fl validator.FieldLevel) bool {
			return feeStatuses[fl.Field().String()]
		},
		"role": func(fl validator.FieldLevel) bool {
			return roles[fl.Field().String()]
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %q validator: %w", tag, err)
		}
	}
	return nil
}

// RegisterBindingValidators installs the custom tags on gin's default binding validator.
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// Describe renders a field error as a short human-readable sentence.
func Describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "identifier":
		return e.Field() + " must be a valid student identifier"
	case "username":
		return e.Field() + " must be 3-150 letters, digits or @.+-_"
	case "feestatus":
		return e.Field() + " must be one of: paid, pending, late"
	case "role":
		return e.Field() + " must be one of: staff, student, parent"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
