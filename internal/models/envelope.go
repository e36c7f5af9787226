package models

import "encoding/json"

// FieldError is one failed server-side field validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the standard response wrapper used by every API endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
}

// Record is one entity row as returned inside a search response. Business
// fields are passed through untouched; the console only reads the columns
// it renders.
type Record map[string]any

// StringField returns the named field rendered as a string, or "" when
// absent. Numbers keep their JSON representation.
func (r Record) StringField(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		n := json.Number("")
		b, err := json.Marshal(t)
		if err == nil {
			n = json.Number(b)
		}
		return n.String()
	case bool:
		if t {
			return "1"
		}
		return "0"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ListResult is the page-shaped outcome of one search call.
type ListResult struct {
	TotalCount int
	Items      []Record
}
