package extract

import "github.com/mvp-joe/restuml2code/internal/model"

// Variable entry sub-labels.
const (
	subDescription = "description"
	subSyntax      = "syntax"
)

type variableAssembler struct {
	rec model.VariableGroup
	set scalars
	sub string
}

func newVariableAssembler() *variableAssembler {
	return &variableAssembler{set: scalars{}}
}

func (a *variableAssembler) assign(row int, attr string, c cell) error {
	switch attr {
	case attrVariablesGroup:
		if err := c.expectValue(attr, 2); err != nil {
			return err
		}
		return a.set.set(attr, c, &a.rec.Group, c.value())
	case attrHeader:
		if err := c.expectValue(attr, 2); err != nil {
			return err
		}
		return a.set.set(attr, c, &a.rec.Header, c.value())
	case attrVariables:
		return a.assignEntry(c)
	}
	return lineErr(c.line, ErrSyntax, "attribute %s not valid in row %d", attr, row)
}

// assignEntry applies a variables row: column 2 names the sub-attribute, column 3
// or a code block supplies its value. A description label starts a new variable.
func (a *variableAssembler) assignEntry(c cell) error {
	if !c.code && c.column == 2 {
		switch sub := subLabel(c.text); sub {
		case subDescription:
			a.rec.Variables = append(a.rec.Variables, model.Variable{})
			a.sub = sub
		case subSyntax:
			if len(a.rec.Variables) == 0 {
				return lineErr(c.line, ErrSyntax, "variable %s before its description", sub)
			}
			a.sub = sub
		default:
			return lineErr(c.line, ErrSyntax, "unknown variable attribute %q", c.text)
		}
		return nil
	}

	if err := c.expectValue(attrVariables, 3); err != nil {
		return err
	}
	if a.sub == "" {
		return lineErr(c.line, ErrSyntax, "variable value without a label")
	}
	last := &a.rec.Variables[len(a.rec.Variables)-1]
	switch a.sub {
	case subDescription:
		last.Description = appendDescription(last.Description, c.value())
	case subSyntax:
		last.Syntax = c.value()
	}
	return nil
}

func (a *variableAssembler) header() (string, bool) {
	return a.rec.Header, a.set[attrHeader]
}

func (a *variableAssembler) commit(h *model.HeaderRecord, private bool) {
	rec := a.rec
	if rec.Variables == nil {
		rec.Variables = []model.Variable{}
	}
	rec.Private = private
	h.Variables = append(h.Variables, rec)
}
