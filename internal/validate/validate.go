// Package validate implements the validation pipeline run before every write:
// an ordered list of (field, check, message) rules collecting violations into
// a field -> messages map instead of failing on the first error.
package validate

import (
	"fmt"
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Errors maps a field name to the ordered list of violation messages.
type Errors map[string][]string

// Add appends a violation message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether at least one violation was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Rule is a single validation check. OK returns true when the rule passes.
type Rule struct {
	Field   string
	Message string
	OK      func() bool
}

// Run evaluates rules in order and collects every failure.
func Run(rules ...Rule) Errors {
	errs := Errors{}
	for _, r := range rules {
		if !r.OK() {
			errs.Add(r.Field, r.Message)
		}
	}
	return errs
}

// Required fails when value is empty.
func Required(field, value string) Rule {
	return Rule{Field: field, Message: "can't be blank", OK: func() bool { return value != "" }}
}

// MinLen fails when a non-empty value is shorter than n.
func MinLen(field, value string, n int) Rule {
	return Rule{Field: field, Message: fmt.Sprintf("is too short (minimum is %d characters)", n), OK: func() bool {
		return value == "" || len(value) >= n
	}}
}

// Email fails when a non-empty value is not a plausible email address.
func Email(field, value string) Rule {
	return Rule{Field: field, Message: "is invalid", OK: func() bool {
		return value == "" || emailPattern.MatchString(value)
	}}
}

// Confirmed fails when value and confirmation differ.
func Confirmed(field, value, confirmation string) Rule {
	return Rule{Field: field, Message: "doesn't match confirmation", OK: func() bool {
		return value == confirmation
	}}
}

// OneOf fails when a non-empty value is not among allowed.
func OneOf(field, value string, allowed ...string) Rule {
	return Rule{Field: field, Message: "is not included in the list", OK: func() bool {
		if value == "" {
			return true
		}
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}}
}
