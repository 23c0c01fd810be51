package prompts

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/errm"
	"github.com/swaggest/jsonschema-go"
)

// GenerateJSONSchema returns a JSON schema of v built from its struct tags
func GenerateJSONSchema(v any) (string, error) {
	r := jsonschema.Reflector{}

	schema, err := r.Reflect(v, jsonschema.InlineRefs)
	if err != nil {
		return "", errm.Wrap(err, "failed to reflect schema")
	}

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", errm.Wrap(err, "failed to marshal schema")
	}

	return string(out), nil
}
