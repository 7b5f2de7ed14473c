package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)
	reResource = regexp.MustCompile(`^[a-z][a-z-]{1,39}$`)
	reSection  = regexp.MustCompile(`^[a-z]{1,20}$`)
)

var rules = validator.New()

// KeyTag is the rule applied to business keys so every accepted key can be
// used in /admin/:resource/:id routes.
const KeyTag = "recordid"

func init() {
	err := rules.RegisterValidation(KeyTag, func(fl validator.FieldLevel) bool {
		return reID.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q normalizes a free-text search: trims and caps it at 100 characters.
// Any character is allowed since matching happens in memory.
func Q(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	return s
}

// ID validates a record identifier (ObjectIDs and business keys like V-001).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Resource validates a resource path segment.
func Resource(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reResource.MatchString(s)
}

// Section validates a sidebar section name.
func Section(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reSection.MatchString(s)
}

// Password only checks presence and a sane upper bound; the backend owns the
// real policy.
func Password(s string) bool {
	return len(s) > 0 && len(s) <= 128
}

// Rule checks a value against a validator tag such as "gte=0,lte=5" and
// returns a human readable reason.
func Rule(value any, tag string) error {
	if tag == "" {
		return nil
	}
	err := rules.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(describe(verrs[0]))
	}
	return err
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " characters"
	case "max":
		return "must have at most " + fe.Param() + " characters"
	case KeyTag:
		return "may only contain letters, digits, dots, dashes, colons and underscores"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
