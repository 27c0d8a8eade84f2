// Package tools defines the capabilities an agent can expose to a language
// model. A tool carries a name, a description, and a JSON schema for its
// input so that the model itself can decide when and how to call it.
package tools

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// Tool is a callable capability advertised to the model as a function.
type Tool interface {
	Name() string
	Description() string
	// InputSchema returns the JSON schema of the tool arguments, used as the
	// function declaration parameters.
	InputSchema() any
	// Call runs the tool with the model-produced JSON arguments and returns
	// the text fed back to the model.
	Call(ctx context.Context, arguments string) (string, error)
}

var validate = validator.New()

// Validate checks a decoded tool input against its `validate` struct tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// SchemaOf reflects the JSON schema of a tool input struct.
func SchemaOf(v any) any {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	return reflector.Reflect(v)
}
