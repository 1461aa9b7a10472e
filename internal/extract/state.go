package extract

import (
	"strings"

	"github.com/mvp-joe/restuml2code/internal/doctree"
)

// TableKind is the kind of element the tables of the current section describe.
type TableKind int

const (
	Pass TableKind = iota
	FunctionTable
	TypeTable
	MacroConstantsTable
	MacroFunctionTable
	VariableTable
	SourceFileTable
	SourceFileDependencies
)

func (k TableKind) String() string {
	switch k {
	case Pass:
		return "pass"
	case FunctionTable:
		return "function"
	case TypeTable:
		return "type"
	case MacroConstantsTable:
		return "macro constants"
	case MacroFunctionTable:
		return "macro function"
	case VariableTable:
		return "variable"
	case SourceFileTable:
		return "source file"
	case SourceFileDependencies:
		return "source file dependencies"
	default:
		return "unknown"
	}
}

// sectionPhrases maps title phrases to table kinds. Order matters: the first
// phrase contained in a title wins.
var sectionPhrases = []struct {
	phrase string
	kind   TableKind
}{
	{"Source File Dependencies", SourceFileDependencies},
	{"Source File Description", SourceFileTable},
	{"Function-like Macros", MacroFunctionTable},
	{"Compile-time Configuration", MacroConstantsTable},
	{"Link-time Configuration", VariableTable},
	{"Types", TypeTable},
	{"Functions", FunctionTable},
	{"Constants", MacroConstantsTable},
	{"Variables", VariableTable},
}

const privatePhrase = "Private"

// kindForTitle returns the table kind announced by a section title.
func kindForTitle(title string) (kind TableKind, private bool, ok bool) {
	for _, sp := range sectionPhrases {
		if strings.Contains(title, sp.phrase) {
			return sp.kind, strings.Contains(title, privatePhrase), true
		}
	}
	return Pass, false, false
}

// scope is an active recognised section. The anchor is compared by identity so
// that nested sections with the same title do not end the scope early.
type scope struct {
	kind    TableKind
	private bool
	anchor  *doctree.Section
}

// scopeStack tracks recognised sections. Leaving a scope restores the enclosing one.
type scopeStack []scope

func (s *scopeStack) enter(sec *doctree.Section) (scope, bool) {
	kind, private, ok := kindForTitle(sec.Title)
	if !ok {
		return scope{}, false
	}
	sc := scope{kind: kind, private: private, anchor: sec}
	*s = append(*s, sc)
	return sc, true
}

func (s *scopeStack) leave(sec *doctree.Section) bool {
	n := len(*s)
	if n == 0 || (*s)[n-1].anchor != sec {
		return false
	}
	*s = (*s)[:n-1]
	return true
}

func (s scopeStack) current() scope {
	if len(s) == 0 {
		return scope{kind: Pass}
	}
	return s[len(s)-1]
}
