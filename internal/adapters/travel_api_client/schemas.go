package travel_api_client

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

// Ключи схем ответов travel API (имя файла без расширения).
const (
	schemaTours   = "tours"
	schemaCars    = "cars"
	schemaReviews = "reviews"
)

// responseSchemas - скомпилированные схемы ответов списковых эндпоинтов.
type responseSchemas map[string]*jsonschema.Schema

func compileResponseSchemas() (responseSchemas, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	entries, err := fs.ReadDir(schemasFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded schemas: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		raw, err := schemasFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", e.Name(), err)
		}
		if err := compiler.AddResource(e.Name(), bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("failed to add schema resource %s: %w", e.Name(), err)
		}
		names = append(names, e.Name())
	}

	compiled := make(responseSchemas, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		compiled[strings.TrimSuffix(name, ".json")] = schema
	}
	return compiled, nil
}

// validate проверяет тело ответа по схеме key.
func (s responseSchemas) validate(key string, body []byte) error {
	schema, ok := s[key]
	if !ok {
		return fmt.Errorf("no response schema registered for %q", key)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
