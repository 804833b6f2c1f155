package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"path"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
)

const (
	buildSchema    = "build.schema.json"
	evaluateSchema = "evaluate.schema.json"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		names := []string{buildSchema, evaluateSchema}
		for _, name := range names {
			data, err := schemaFS.ReadFile(path.Join("schemas", name))
			if err != nil {
				schemasErr = err
				return
			}
			if err := c.AddResource(name, bytes.NewReader(data)); err != nil {
				schemasErr = err
				return
			}
		}
		out := make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			s, err := c.Compile(name)
			if err != nil {
				schemasErr = err
				return
			}
			out[name] = s
		}
		schemas = out
	})
	return schemas, schemasErr
}

// validateJSON checks a request body against the named schema. The
// returned message carries the schema violation.
func validateJSON(name string, data []byte) error {
	all, err := loadSchemas()
	if err != nil {
		return werrors.Wrap(werrors.ErrCodeInternal, err, "load schemas")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return werrors.New(werrors.ErrCodeInvalidInput, "malformed JSON: %v", err)
	}
	if err := all[name].Validate(v); err != nil {
		return werrors.New(werrors.ErrCodeInvalidInput, "%v", err)
	}
	return nil
}
