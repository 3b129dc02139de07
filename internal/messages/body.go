package messages

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const terminalCommandBodySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "cmd": { "type": "string" }
  },
  "required": ["cmd"],
  "additionalProperties": false
}`

var terminalCommandBody = jsonschema.MustCompileString("terminal_command_body.schema.json", terminalCommandBodySchema)

// DecodeTerminalCommandBody validates a JSON request body of the form
// {"cmd": "..."} and returns the command line.
func DecodeTerminalCommandBody(data []byte) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if err := terminalCommandBody.Validate(v); err != nil {
		return "", fmt.Errorf("schema violation: %w", err)
	}

	var body struct {
		Cmd string `json:"cmd"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return body.Cmd, nil
}
