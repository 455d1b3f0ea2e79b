package jsonstore

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator compiles a JSON Schema into a ValidateFunc. The schema may
// be a map, a JSON string, or any value that marshals to a schema document.
func SchemaValidator(schema any) (ValidateFunc, error) {
	var loader gojsonschema.JSONLoader
	switch v := schema.(type) {
	case string:
		loader = gojsonschema.NewStringLoader(v)
	case []byte:
		loader = gojsonschema.NewBytesLoader(v)
	default:
		raw, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("invalid schema definition: %w", err)
		}
		loader = gojsonschema.NewBytesLoader(raw)
	}

	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return func(value any) bool {
		result, err := compiled.Validate(gojsonschema.NewGoLoader(value))
		return err == nil && result.Valid()
	}, nil
}
