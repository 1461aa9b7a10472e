package extract

import "github.com/mvp-joe/restuml2code/internal/model"

// Definition sub-labels.
const (
	subCondition = "condition"
	subCode      = "code"
)

// macroFunctionAssembler extends the function schema with a multi-branch definition
// and a call cycle interval.
type macroFunctionAssembler struct {
	*functionAssembler
	def       definitionBuilder
	callCycle string
}

func newMacroFunctionAssembler() *macroFunctionAssembler {
	return &macroFunctionAssembler{functionAssembler: newFunctionAssembler()}
}

func (a *macroFunctionAssembler) assign(row int, attr string, c cell) error {
	switch attr {
	case attrDefinition:
		return a.def.assign(c)
	case attrCallCycleInterval:
		if err := c.expectValue(attr, 2); err != nil {
			return err
		}
		return a.set.set(attr, c, &a.callCycle, c.value())
	}
	return a.functionAssembler.assign(row, attr, c)
}

func (a *macroFunctionAssembler) commit(h *model.HeaderRecord, private bool) {
	h.MacroFunctions = append(h.MacroFunctions, model.MacroFunctionRecord{
		FunctionRecord:    a.finish(private),
		Definition:        a.def.result(),
		CallCycleInterval: a.callCycle,
	})
}

// definitionBuilder assembles the ordered preprocessor branches of a macro body.
// Column 2 holds a sub-label ("condition" or "code"), column 3 or a code block the value.
type definitionBuilder struct {
	branches []model.ConditionalBranch
	sub      string
	hasCode  bool
}

func (d *definitionBuilder) assign(c cell) error {
	if !c.code && c.column == 2 {
		return d.label(c)
	}
	if err := c.expectValue(attrDefinition, 3); err != nil {
		return err
	}

	switch d.sub {
	case subCondition:
		cond := unquoteLiteral(c.value())
		if cond == "default" {
			cond = ""
		}
		i := len(d.branches) - 1
		d.branches[i].Condition = cond
		d.branches[i].Tag = branchTag(i, cond)
		return nil

	case subCode:
		if !c.code {
			return lineErr(c.line, ErrSyntax, "definition code must be a code block")
		}
		d.branches[len(d.branches)-1].Code = codeLines(c.text)
		d.hasCode = true
		return nil
	}
	return lineErr(c.line, ErrSyntax, "definition value without a condition or code label")
}

func (d *definitionBuilder) label(c cell) error {
	switch sub := subLabel(c.text); sub {
	case subCondition:
		d.branches = append(d.branches, model.ConditionalBranch{Code: []string{}})
		d.hasCode = false
		d.sub = sub
	case subCode:
		// The first branch may omit its condition; so may any branch after a complete one.
		if len(d.branches) == 0 || d.hasCode {
			d.branches = append(d.branches, model.ConditionalBranch{Code: []string{}})
			d.hasCode = false
		}
		d.sub = sub
	default:
		return lineErr(c.line, ErrSyntax, "unknown definition label %q", c.text)
	}
	return nil
}

func (d *definitionBuilder) result() []model.ConditionalBranch {
	if d.branches == nil {
		return []model.ConditionalBranch{}
	}
	return d.branches
}

// branchTag returns the preprocessor directive that opens branch i.
func branchTag(i int, cond string) string {
	switch {
	case i == 0 && cond == "":
		return model.TagNone
	case i == 0:
		return model.TagIf
	case cond == "":
		return model.TagElse
	default:
		return model.TagElif
	}
}
