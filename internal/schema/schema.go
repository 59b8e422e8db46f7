package schema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	Funnel = "funnel"
	CRM    = "crm"
)

const baseURL = "https://client-portal.local/schemas/"

//go:embed *.schema.json
var files embed.FS

var ErrInvalid = errors.New("payload does not match schema")

// Validator checks webhook bodies against the embedded schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	c := jsonschema.NewCompiler()
	names := []string{Funnel, CRM}

	for _, name := range names {
		data, err := files.ReadFile(name + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s schema: %w", name, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s schema: %w", name, err)
		}
		if err := c.AddResource(baseURL+name+".json", doc); err != nil {
			return nil, fmt.Errorf("failed to add %s schema: %w", name, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		sch, err := c.Compile(baseURL + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
		}
		v.schemas[name] = sch
	}
	return v, nil
}

// MustNew is New for package-level setup and tests.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks body against the named schema. Malformed JSON and schema
// violations both wrap ErrInvalid.
func (v *Validator) Validate(name string, body []byte) error {
	sch, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
