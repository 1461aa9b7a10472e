package model

import (
	"encoding/json"
	"maps"
	"slices"
)

// Reserved HeaderRecord attribute names. Global fields may not use them.
const (
	AttrFileName       = "file-name"
	AttrFunctions      = "functions"
	AttrTypes          = "types"
	AttrMacroConstants = "macro-constants"
	AttrMacroFunctions = "macro-functions"
	AttrVariables      = "variables"
	AttrIncludes       = "includes"
	AttrDescription    = "description"
	AttrGenerated      = "generated"
)

var reserved = map[string]bool{
	AttrFileName:       true,
	AttrFunctions:      true,
	AttrTypes:          true,
	AttrMacroConstants: true,
	AttrMacroFunctions: true,
	AttrVariables:      true,
	AttrIncludes:       true,
	AttrDescription:    true,
	AttrGenerated:      true,
}

// IsReserved reports whether name is a HeaderRecord attribute name.
func IsReserved(name string) bool {
	return reserved[name]
}

// HeaderRecord is everything declared in one header file.
//
// Includes keeps discovery order and may contain duplicates. Globals holds
// document-level fields copied onto every header; they are flattened into the
// JSON object next to the regular attributes.
type HeaderRecord struct {
	FileName       string                `json:"file-name"`
	Functions      []FunctionRecord      `json:"functions"`
	Types          []TypeRecord          `json:"types"`
	MacroConstants []MacroConstantGroup  `json:"macro-constants"`
	MacroFunctions []MacroFunctionRecord `json:"macro-functions"`
	Variables      []VariableGroup       `json:"variables"`
	Includes       []string              `json:"includes"`
	Description    string                `json:"description"`
	Generated      bool                  `json:"generated"`
	Globals        map[string]string     `json:"-"`
}

// NewHeaderRecord creates an empty record for the named header.
func NewHeaderRecord(name string) *HeaderRecord {
	return &HeaderRecord{
		FileName:       name,
		Functions:      []FunctionRecord{},
		Types:          []TypeRecord{},
		MacroConstants: []MacroConstantGroup{},
		MacroFunctions: []MacroFunctionRecord{},
		Variables:      []VariableGroup{},
		Includes:       []string{},
		Globals:        map[string]string{},
	}
}

// MarshalJSON flattens Globals into the record object.
func (h *HeaderRecord) MarshalJSON() ([]byte, error) {
	type plain HeaderRecord
	data, err := json.Marshal((*plain)(h))
	if err != nil {
		return nil, err
	}
	if len(h.Globals) == 0 {
		return data, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for k, v := range h.Globals {
		if !IsReserved(k) {
			obj[k] = v
		}
	}
	return json.Marshal(obj)
}

// SetGlobals copies fields onto the record, replacing same-named values.
func (h *HeaderRecord) SetGlobals(fields map[string]string) {
	if h.Globals == nil {
		h.Globals = make(map[string]string, len(fields))
	}
	maps.Copy(h.Globals, fields)
}

// Clone returns a copy of h whose lists and globals can be extended without
// affecting h. Element records themselves are copied by value.
func (h *HeaderRecord) Clone() *HeaderRecord {
	c := *h
	c.Functions = slices.Clone(h.Functions)
	c.Types = slices.Clone(h.Types)
	c.MacroConstants = slices.Clone(h.MacroConstants)
	c.MacroFunctions = slices.Clone(h.MacroFunctions)
	c.Variables = slices.Clone(h.Variables)
	c.Includes = slices.Clone(h.Includes)
	c.Globals = maps.Clone(h.Globals)
	return &c
}
