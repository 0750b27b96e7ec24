package validator

import (
	"regexp"
	"unicode/utf8"
)

var (
	EmailRX = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
)

// Validator collects field-keyed validation messages. A field can accumulate
// more than one message, and the whole map is rendered as the 400 response
// body.
type Validator struct {
	Errors map[string][]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string][]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(key, message string) {
	v.Errors[key] = append(v.Errors[key], message)
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

func In[T comparable](value T, list ...T) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

func MaxChars(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

func InBetween(value string, lower, greater int) bool {
	return utf8.RuneCountInString(value) >= lower && utf8.RuneCountInString(value) <= greater
}
