package cache

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// cacheSchema guards against truncated or hand-edited cache files. Only
// the envelope and the per-record fields the pipeline rehydrates are
// pinned down; unknown extra fields are tolerated.
const cacheSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "records"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "run_id": {"type": "string"},
    "generated_at": {"type": "string"},
    "records": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["relpath", "content_hash", "doc_type"],
        "properties": {
          "relpath": {"type": "string"},
          "content_hash": {"type": "string", "minLength": 1},
          "doc_type": {"type": "string", "enum": ["LAW", "NOTICE", "MANUAL"]},
          "method": {"type": "string"},
          "pages": {"type": "integer", "minimum": 0},
          "text_chars": {"type": "integer", "minimum": 0},
          "date_key": {"type": "string", "pattern": "^([0-9]{8})?$"},
          "ocr_score": {"type": "number", "minimum": 0, "maximum": 1},
          "needs_review": {"type": "boolean"}
        }
      }
    }
  }
}`

var compiledSchema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("cache_schema.json", bytes.NewReader([]byte(cacheSchema))); err != nil {
		panic(fmt.Sprintf("add cache schema resource: %v", err))
	}
	schema, err := compiler.Compile("cache_schema.json")
	if err != nil {
		panic(fmt.Sprintf("compile cache schema: %v", err))
	}
	return schema
}

// validate checks raw cache bytes against the schema.
func validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse cache json: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("cache schema validation: %w", err)
	}
	return nil
}
