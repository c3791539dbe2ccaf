// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

// Schema is a response schema tree in the Gemini API's own dialect
// (uppercase type names: OBJECT, ARRAY, STRING, INTEGER). Attached to a
// request's generation config it constrains the model's output shape.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
}

// Schema type names accepted by the API.
const (
	TypeObject  = "OBJECT"
	TypeArray   = "ARRAY"
	TypeString  = "STRING"
	TypeInteger = "INTEGER"
)
