package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"showcase/models"
)

const commandSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["action"],
  "additionalProperties": false,
  "properties": {
    "action": {"enum": ["next", "previous", "goto"]},
    "index": {"type": "integer", "minimum": 0}
  },
  "if": {"properties": {"action": {"const": "goto"}}},
  "then": {"required": ["index"]}
}`

// CommandValidator validates viewer commands against a pre-compiled JSON schema.
type CommandValidator struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

func NewCommandValidator() *CommandValidator { return &CommandValidator{} }

func (v *CommandValidator) load() {
	v.schema, v.err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(commandSchema))
	if v.err != nil {
		v.err = fmt.Errorf("compile schema: %w", v.err)
	}
}

// Decode validates a raw frame and decodes it into a command.
func (v *CommandValidator) Decode(raw []byte) (models.Command, error) {
	var cmd models.Command
	v.once.Do(v.load)
	if v.err != nil {
		return cmd, v.err
	}
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return cmd, fmt.Errorf("command is not valid json: %w", err)
	}
	if !res.Valid() {
		return cmd, fmt.Errorf("command invalid: %v", res.Errors())
	}
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return cmd, err
	}
	return cmd, nil
}
