package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

// RawSpec returns the embedded OpenAPI document.
func RawSpec() []byte {
	return rawSpec
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// decodeBody checks body against a component schema and then decodes it into dst.
func decodeBody(doc *openapi3.T, schema string, body []byte, dst any) error {
	ref, ok := doc.Components.Schemas[schema]
	if !ok || ref.Value == nil {
		return fmt.Errorf("unknown schema %q", schema)
	}

	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := ref.Value.VisitJSON(generic); err != nil {
		return fmt.Errorf("request does not match %s: %w", schema, err)
	}
	return json.Unmarshal(body, dst)
}
