package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/upb/provider-gateway/services"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Rule is one entry of an ordered required-parameter rule set. A rule either
// checks a single Field, or AnyOf groups where one group must be fully
// present.
type Rule struct {
	Field    string
	Hint     string
	Tag      string
	Optional bool

	AnyOf   [][]string
	Message string
}

// Required builds a rule for a single mandatory field
func Required(field, hint string) Rule {
	return Rule{Field: field, Hint: hint}
}

// RequiredOneOf builds a rule satisfied by any one of the given fields
func RequiredOneOf(fields ...string) Rule {
	groups := make([][]string, 0, len(fields))
	for _, f := range fields {
		groups = append(groups, []string{f})
	}
	return Rule{AnyOf: groups, Message: "Missing " + strings.Join(fields, " or ")}
}

// ValidateParams evaluates rules in order and returns a validation error for
// the first failing rule.
func ValidateParams(params Params, rules []Rule) error {
	for _, rule := range rules {
		if msg, ok := rule.check(params); !ok {
			return services.NewValidationError(msg)
		}
	}
	return nil
}

func (r Rule) check(params Params) (string, bool) {
	if len(r.AnyOf) > 0 {
		for _, group := range r.AnyOf {
			if allPresent(params, group) {
				return "", true
			}
		}
		return r.Message, false
	}

	value := params.Get(r.Field)
	if !present(value) {
		if r.Optional {
			return "", true
		}
		if r.Message != "" {
			return r.Message, false
		}
		if r.Hint != "" {
			return fmt.Sprintf("Missing %s (%s)", r.Field, r.Hint), false
		}
		return "Missing " + r.Field, false
	}

	if r.Tag != "" {
		if err := validate.Var(value, r.Tag); err != nil {
			return fmt.Sprintf("Invalid %s", r.Field), false
		}
	}
	return "", true
}

func allPresent(params Params, fields []string) bool {
	for _, f := range fields {
		if !present(params.Get(f)) {
			return false
		}
	}
	return true
}

// present reports whether a value satisfies the "required" tag; an empty
// string counts as missing.
func present(value string) bool {
	return validate.Var(value, "required") == nil
}
