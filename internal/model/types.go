// Package model holds the API model extracted from an interface specification
// document: one HeaderRecord per header file, each listing the functions, types,
// macros and variables declared in it.
package model

// Param is one entry of a parameter list.
type Param struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ReturnValue describes what a function returns. Type is "void" when nothing is returned.
type ReturnValue struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// FunctionRecord is a function declared in a header.
type FunctionRecord struct {
	Name           string       `json:"function-name"`
	Description    string       `json:"description,omitempty"`
	Syntax         string       `json:"syntax,omitempty"`
	Header         string       `json:"header"`
	AllowedFromISR bool         `json:"allowed-from-isr"`
	IsReentrant    bool         `json:"is-reentrant"`
	ReturnValue    *ReturnValue `json:"return-value,omitempty"`
	InParams       []Param      `json:"in-params"`
	OutParams      []Param      `json:"out-params"`
	InOutParams    []Param      `json:"inout-params"`
	Private        bool         `json:"private"`
}

// Branch tags of a ConditionalBranch.
const (
	TagNone = ""
	TagIf   = "#if"
	TagElif = "#elif"
	TagElse = "#else"
)

// ConditionalBranch is one preprocessor-guarded variant of a function-like macro body.
// An empty Condition is the unconditional (default) branch.
type ConditionalBranch struct {
	Condition string   `json:"condition"`
	Tag       string   `json:"prepro-conditional"`
	Code      []string `json:"code"`
}

// MacroFunctionRecord is a function-like macro. Definition lists its branches in
// the order they must be emitted.
type MacroFunctionRecord struct {
	FunctionRecord
	Definition        []ConditionalBranch `json:"definition"`
	CallCycleInterval string              `json:"call-cycle-interval,omitempty"`
}

// StructElement is a field of a structure type.
type StructElement struct {
	Type        string `json:"type"`
	Field       string `json:"field,omitempty"`
	Description string `json:"description,omitempty"`
}

// EnumConstant is an enumerator or a macro constant.
type EnumConstant struct {
	Name        string `json:"name"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// Type kinds with list-valued bodies.
const (
	KindStructure   = "Structure"
	KindEnumeration = "Enumeration"
)

// TypeRecord is a type declared in a header. Elements is set for structures,
// Constants for enumerations and Type for every other kind.
type TypeRecord struct {
	Name        string          `json:"type-name"`
	Description string          `json:"description,omitempty"`
	Kind        string          `json:"kind"`
	Header      string          `json:"header"`
	Type        string          `json:"type,omitempty"`
	Elements    []StructElement `json:"elements,omitzero"`
	Constants   []EnumConstant  `json:"constants,omitzero"`
	Private     bool            `json:"private"`
}

// MacroConstantGroup is a named group of object-like macros.
type MacroConstantGroup struct {
	Group     string         `json:"constants-group"`
	Header    string         `json:"header"`
	Constants []EnumConstant `json:"constants"`
	Private   bool           `json:"private"`
}

// Variable is a single global variable.
type Variable struct {
	Description string `json:"description,omitempty"`
	Syntax      string `json:"syntax,omitempty"`
}

// VariableGroup is a named group of global variables.
type VariableGroup struct {
	Group     string     `json:"variables-group"`
	Header    string     `json:"header"`
	Variables []Variable `json:"variables"`
	Private   bool       `json:"private"`
}
