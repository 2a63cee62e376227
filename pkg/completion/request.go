package completion

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// promptSchema describes the only accepted request body.
const promptSchema = `{
	"type": "object",
	"required": ["prompt"],
	"properties": {
		"prompt": {"type": "string", "minLength": 1}
	}
}`

var promptRequestSchema = mustCompile("prompt-request.json", promptSchema)

func mustCompile(name, schema string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schema))
	if err != nil {
		panic(fmt.Sprintf("parse %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("add %s: %v", name, err))
	}
	return c.MustCompile(name)
}

// DecodePromptRequest reads a JSON body and checks it against the prompt
// request schema. Any failure, including malformed JSON, is a validation
// error; shapes the schema does not allow are never coerced.
func DecodePromptRequest(r io.Reader) (PromptRequest, error) {
	doc, err := jsonschema.UnmarshalJSON(r)
	if err != nil {
		return PromptRequest{}, InvalidInput(fmt.Errorf("decoding body: %w", err))
	}
	if err := promptRequestSchema.Validate(doc); err != nil {
		return PromptRequest{}, InvalidInput(err)
	}
	obj, _ := doc.(map[string]any)
	prompt, ok := obj["prompt"].(string)
	if !ok || prompt == "" {
		return PromptRequest{}, InvalidInput(errors.New("prompt is not a non-empty string"))
	}
	return PromptRequest{Prompt: prompt}, nil
}
