// Package validation collects field-level problems found before a row is written.
package validation

import "strings"

// Separator joins messages when a list is rendered for a person.
const Separator = ".  "

// FieldError is one problem with one attribute.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the error list of a record that failed validation.
// A nil or empty list means the record is valid.
type Errors []FieldError

// Add appends a problem for field.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Required adds "<label> cannot be blank." when value is blank.
func (e *Errors) Required(field, label, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, label+" cannot be blank")
	}
}

// MaxLength adds a problem when value is longer than max runes.
func (e *Errors) MaxLength(field, label, value string, max int) {
	if len([]rune(value)) > max {
		e.Add(field, label+" is too long")
	}
}

// Err returns the list as an error, or nil when there are no problems.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Messages returns the messages in the order they were added.
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Message)
	}
	return out
}

// Join renders the messages joined by sep.
func (e Errors) Join(sep string) string {
	return strings.Join(e.Messages(), sep)
}

// Has reports whether field has at least one problem.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (e Errors) Error() string {
	return e.Join(Separator)
}
