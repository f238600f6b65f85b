package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// envelopeSchema describes the shape every stored entity document must have to be rebuilt.
// Whether the type and version are supported is up to the factory.
const envelopeSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["node_hue_api"],
	"properties": {
		"node_hue_api": {
			"type": "object",
			"required": ["type", "version"],
			"properties": {
				"type": {"type": "string"},
				"version": {"type": "integer"}
			}
		}
	}
}`

func compileEnvelope() (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal([]byte(envelopeSchema), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("envelope.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("envelope.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}
	return compiled, nil
}
