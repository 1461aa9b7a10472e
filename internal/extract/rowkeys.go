package extract

// Attribute keys.
const (
	attrTypeName          = "type-name"
	attrFunctionName      = "function-name"
	attrDescription       = "description"
	attrKind              = "kind"
	attrHeader            = "header"
	attrType              = "type"
	attrElements          = "elements"
	attrConstants         = "constants"
	attrSyntax            = "syntax"
	attrAllowedFromISR    = "allowed-from-isr"
	attrIsReentrant       = "is-reentrant"
	attrReturnValue       = "return-value"
	attrInParams          = "in-params"
	attrOutParams         = "out-params"
	attrInOutParams       = "inout-params"
	attrDefinition        = "definition"
	attrCallCycleInterval = "call-cycle-interval"
	attrConstantsGroup    = "constants-group"
	attrVariablesGroup    = "variables-group"
	attrVariables         = "variables"
)

// anyRow marks an attribute that may appear on any row.
const anyRow = -1

// rowKey maps a row label to the attribute it supplies and, per table kind, the row
// number it must appear on.
type rowKey struct {
	label string
	attr  string
	rows  map[TableKind]int
}

// rowKeys is matched in order; the first entry whose label is contained in the
// label cell and which applies to the active table kind wins.
var rowKeys = []rowKey{
	{"Type name:", attrTypeName, map[TableKind]int{TypeTable: 1}},
	{"Function name:", attrFunctionName, map[TableKind]int{FunctionTable: 1, MacroFunctionTable: 1}},
	{"Macro name:", attrFunctionName, map[TableKind]int{MacroFunctionTable: 1}},
	{"Constants group:", attrConstantsGroup, map[TableKind]int{MacroConstantsTable: 1}},
	{"Variables group:", attrVariablesGroup, map[TableKind]int{VariableTable: 1}},
	{"Group:", attrConstantsGroup, map[TableKind]int{MacroConstantsTable: 1}},
	{"Group:", attrVariablesGroup, map[TableKind]int{VariableTable: 1}},
	{"Description:", attrDescription, map[TableKind]int{TypeTable: 2, FunctionTable: 2, MacroFunctionTable: 2}},
	{"Declared in:", attrHeader, map[TableKind]int{
		TypeTable: 4, FunctionTable: 4, MacroFunctionTable: 4, MacroConstantsTable: 2, VariableTable: 2,
	}},
	{"Kind:", attrKind, map[TableKind]int{TypeTable: 3}},
	{"Type:", attrType, map[TableKind]int{TypeTable: 5}},
	{"Elements:", attrElements, map[TableKind]int{TypeTable: 5}},
	{"Constants:", attrConstants, map[TableKind]int{TypeTable: 5, MacroConstantsTable: 3}},
	{"Variables:", attrVariables, map[TableKind]int{VariableTable: 3}},
	{"Syntax:", attrSyntax, map[TableKind]int{FunctionTable: 3, MacroFunctionTable: 3}},
	{"May be called from ISR:", attrAllowedFromISR, map[TableKind]int{FunctionTable: 5, MacroFunctionTable: 5}},
	{"Reentrancy:", attrIsReentrant, map[TableKind]int{FunctionTable: 6, MacroFunctionTable: 6}},
	{"Return value:", attrReturnValue, map[TableKind]int{FunctionTable: 7, MacroFunctionTable: 7}},
	{"Parameters [in]:", attrInParams, map[TableKind]int{FunctionTable: anyRow, MacroFunctionTable: anyRow}},
	{"Parameters [out]:", attrOutParams, map[TableKind]int{FunctionTable: anyRow, MacroFunctionTable: anyRow}},
	{"Parameters [in-out]:", attrInOutParams, map[TableKind]int{FunctionTable: anyRow, MacroFunctionTable: anyRow}},
	{"Definition:", attrDefinition, map[TableKind]int{MacroFunctionTable: anyRow}},
	{"Call cycle interval:", attrCallCycleInterval, map[TableKind]int{MacroFunctionTable: anyRow}},
}
