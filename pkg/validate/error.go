package validate

import "strings"

// FieldError is one failed rule, tagged with the input field it belongs to.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error aggregates the failures of several field validators so a caller can
// report all of them in one response.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Collector gathers named results; Err returns nil when every result was valid.
type Collector struct {
	fields []FieldError
}

func (c *Collector) Add(field string, r Result) *Collector {
	for _, msg := range r.Errors {
		c.fields = append(c.fields, FieldError{Field: field, Message: msg})
	}
	return c
}

func (c *Collector) Fail(field, msg string) *Collector {
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
	return c
}

func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: c.fields}
}
