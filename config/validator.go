package config

import (
	"fmt"

	"github.com/grovetools/deck/schema"
	"gopkg.in/yaml.v3"
)

// SchemaValidator validates configuration against the generated JSON Schema.
type SchemaValidator struct {
	validator *schema.Validator
}

// NewSchemaValidator creates a new schema validator from GenerateSchema.
func NewSchemaValidator() (*SchemaValidator, error) {
	schemaData, err := GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}
	validator, err := schema.NewValidator(schemaData)
	if err != nil {
		return nil, err
	}
	return &SchemaValidator{validator: validator}, nil
}

// Validate validates configuration data against the schema. Typed configs
// go through YAML first so property names match the schema's yaml names.
func (v *SchemaValidator) Validate(configData interface{}) error {
	if _, ok := configData.(map[string]interface{}); !ok {
		data, err := yaml.Marshal(configData)
		if err != nil {
			return fmt.Errorf("failed to marshal config for validation: %w", err)
		}
		var generic map[string]interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to unmarshal config for validation: %w", err)
		}
		configData = generic
	}
	return v.validator.Validate(configData)
}
