package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "Deck Configuration", schema["title"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "version")
	assert.Contains(t, props, "storage")
	assert.Contains(t, props, "memsaver")
	assert.NotContains(t, props, "Extensions")
}

func TestSchemaValidator(t *testing.T) {
	v, err := NewSchemaValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]interface{}{
		"version": "1.0",
		"storage": map[string]interface{}{"backend": "file"},
		"custom":  map[string]interface{}{"anything": true},
	}))

	err = v.Validate(map[string]interface{}{
		"version": "1.0",
		"storage": map[string]interface{}{"backend": "redis"},
	})
	assert.Error(t, err)

	err = v.Validate(map[string]interface{}{
		"version":  "1.0",
		"memsaver": map[string]interface{}{"workflow_inactive_after": "soon"},
	})
	assert.Error(t, err)
}
