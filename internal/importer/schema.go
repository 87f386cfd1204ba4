package importer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed plan.schema.json
var planSchemaJSON []byte

const planSchemaURL = "housebudget://plan.schema.json"

var (
	schemaOnce sync.Once
	planSchema *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(planSchemaURL, bytes.NewReader(planSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("loading plan schema: %w", err)
			return
		}
		planSchema, schemaErr = c.Compile(planSchemaURL)
	})
	return planSchema, schemaErr
}

// PlanFile is the JSON structure accepted by `sim new --file`. Selections
// maps a category name to a catalog option ID.
type PlanFile struct {
	Name       string            `json:"name,omitempty"`
	Budget     int               `json:"budget"`
	Duration   int               `json:"duration"`
	Seed       uint64            `json:"seed,omitempty"`
	Selections map[string]string `json:"selections"`
}

// LoadPlanFile reads and parses a plan file.
func LoadPlanFile(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlanFile(data)
}

// ParsePlanFile checks data against the plan JSON schema before decoding.
func ParsePlanFile(data []byte) (*PlanFile, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var pf PlanFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &pf, nil
}

// schemaError flattens a validation tree into one line per failing leaf.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("plan file: %w", err)
	}
	var msgs []string
	var walk func(*jsonschema.ValidationError)
	walk = func(v *jsonschema.ValidationError) {
		if len(v.Causes) == 0 {
			loc := v.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, fmt.Sprintf("%s: %s", loc, v.Message))
			return
		}
		for _, c := range v.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.Strings(msgs)

	errs := make([]error, len(msgs))
	for i, m := range msgs {
		errs[i] = errors.New(m)
	}
	return fmt.Errorf("plan file does not match schema: %w", errors.Join(errs...))
}
