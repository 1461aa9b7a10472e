package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for HeaderRecord:
// - A new record serialises every list as an empty array
// - Globals are flattened next to the regular attributes
// - Globals never overwrite reserved attributes
// - Optional function and type attributes are omitted when empty

func TestHeaderRecord_MarshalEmpty(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(NewHeaderRecord("a.h"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"file-name": "a.h",
		"functions": [],
		"types": [],
		"macro-constants": [],
		"macro-functions": [],
		"variables": [],
		"includes": [],
		"description": "",
		"generated": false
	}`, string(data))
}

func TestHeaderRecord_MarshalGlobals(t *testing.T) {
	t.Parallel()
	h := NewHeaderRecord("a.h")
	h.SetGlobals(map[string]string{"version": "1.2", "description": "ignored"})

	data, err := json.Marshal(h)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, "1.2", obj["version"])
	assert.Equal(t, "", obj["description"])
	assert.Equal(t, "a.h", obj["file-name"])
}

func TestHeaderRecord_MarshalElements(t *testing.T) {
	t.Parallel()
	h := NewHeaderRecord("a.h")
	h.Functions = append(h.Functions, FunctionRecord{
		Name:     "A_Init",
		Header:   "a.h",
		InParams: []Param{{Name: "config"}},
	})
	h.Types = append(h.Types, TypeRecord{Name: "A_Type", Kind: "Typedef", Header: "a.h", Type: "uint8"})
	h.MacroFunctions = append(h.MacroFunctions, MacroFunctionRecord{
		FunctionRecord: FunctionRecord{Name: "A_MACRO", Header: "a.h"},
		Definition:     []ConditionalBranch{{Tag: TagNone, Code: []string{"(x)"}}},
	})

	data, err := json.Marshal(h)
	require.NoError(t, err)

	var obj struct {
		Functions      []map[string]any `json:"functions"`
		Types          []map[string]any `json:"types"`
		MacroFunctions []map[string]any `json:"macro-functions"`
	}
	require.NoError(t, json.Unmarshal(data, &obj))

	fn := obj.Functions[0]
	assert.Equal(t, "A_Init", fn["function-name"])
	assert.NotContains(t, fn, "return-value")
	assert.NotContains(t, fn, "syntax")
	assert.Nil(t, fn["out-params"])

	typ := obj.Types[0]
	assert.Equal(t, "uint8", typ["type"])
	assert.NotContains(t, typ, "elements")
	assert.NotContains(t, typ, "constants")

	macro := obj.MacroFunctions[0]
	assert.Equal(t, "A_MACRO", macro["function-name"])
	def := macro["definition"].([]any)[0].(map[string]any)
	assert.Equal(t, "", def["prepro-conditional"])
}
