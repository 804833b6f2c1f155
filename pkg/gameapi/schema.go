package gameapi

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
	buildRequestSchema  = "build_request.schema.json"
	wordsResponseSchema = "words_response.schema.json"
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
		names := []string{buildRequestSchema, wordsResponseSchema}
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

// validateJSON checks data against the named embedded schema.
func validateJSON(name string, data []byte, code werrors.Code) error {
	all, err := loadSchemas()
	if err != nil {
		return werrors.Wrap(werrors.ErrCodeInternal, err, "load schemas")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return werrors.Wrap(code, err, "decode for %s", name)
	}
	if err := all[name].Validate(v); err != nil {
		return werrors.Wrap(code, err, "%s", name)
	}
	return nil
}

// ValidateBuildRequest checks req against the build request schema.
func ValidateBuildRequest(req BuildRequest) error {
	if req.Words == nil {
		req.Words = []WordCommand{}
	}
	data, err := json.Marshal(req)
	if err != nil {
		return werrors.Wrap(werrors.ErrCodeInternal, err, "encode build request")
	}
	return validateJSON(buildRequestSchema, data, werrors.ErrCodeInvalidPlacement)
}
