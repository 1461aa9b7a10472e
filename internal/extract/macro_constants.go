package extract

import "github.com/mvp-joe/restuml2code/internal/model"

type macroConstantsAssembler struct {
	rec model.MacroConstantGroup
	set scalars
}

func newMacroConstantsAssembler() *macroConstantsAssembler {
	return &macroConstantsAssembler{set: scalars{}}
}

func (a *macroConstantsAssembler) assign(row int, attr string, c cell) error {
	switch attr {
	case attrConstantsGroup:
		if err := c.expectValue(attr, 2); err != nil {
			return err
		}
		return a.set.set(attr, c, &a.rec.Group, c.value())
	case attrHeader:
		if err := c.expectValue(attr, 2); err != nil {
			return err
		}
		return a.set.set(attr, c, &a.rec.Header, c.value())
	case attrConstants:
		constants, err := appendConstant(a.rec.Constants, attr, c, continueLines)
		if err != nil {
			return err
		}
		a.rec.Constants = constants
		return nil
	}
	return lineErr(c.line, ErrSyntax, "attribute %s not valid in row %d", attr, row)
}

func (a *macroConstantsAssembler) header() (string, bool) {
	return a.rec.Header, a.set[attrHeader]
}

func (a *macroConstantsAssembler) commit(h *model.HeaderRecord, private bool) {
	rec := a.rec
	if rec.Constants == nil {
		rec.Constants = []model.EnumConstant{}
	}
	rec.Private = private
	h.MacroConstants = append(h.MacroConstants, rec)
}
