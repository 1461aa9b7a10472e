package extract

import "github.com/mvp-joe/restuml2code/internal/model"

type typeAssembler struct {
	rec model.TypeRecord
	set scalars
}

func newTypeAssembler() *typeAssembler {
	return &typeAssembler{set: scalars{}}
}

func (a *typeAssembler) assign(row int, attr string, c cell) error {
	rec := &a.rec
	switch attr {
	case attrTypeName, attrDescription, attrKind, attrHeader:
		if err := c.expectValue(attr, 2); err != nil {
			return err
		}
		dst := map[string]*string{
			attrTypeName:    &rec.Name,
			attrDescription: &rec.Description,
			attrKind:        &rec.Kind,
			attrHeader:      &rec.Header,
		}[attr]
		return a.set.set(attr, c, dst, scalarText(attr, c))

	case attrType, attrElements, attrConstants:
		if !a.set[attrKind] {
			return lineErr(c.line, ErrSyntax, "%s before kind", attr)
		}
		return a.assignBody(c)
	}
	return lineErr(c.line, ErrSyntax, "attribute %s not valid in row %d", attr, row)
}

// assignBody applies a body row, whose meaning depends on the declared kind.
func (a *typeAssembler) assignBody(c cell) error {
	rec := &a.rec
	switch rec.Kind {
	case model.KindStructure:
		if err := c.expect(attrElements, 2, 3, 4); err != nil {
			return err
		}
		if c.column == 2 {
			rec.Elements = append(rec.Elements, model.StructElement{Type: c.text})
			return nil
		}
		if len(rec.Elements) == 0 {
			return lineErr(c.line, ErrSyntax, "%s entry without a type", attrElements)
		}
		last := &rec.Elements[len(rec.Elements)-1]
		if c.column == 3 {
			last.Field = c.text
		} else {
			last.Description = appendDescription(last.Description, c.text)
		}
		return nil

	case model.KindEnumeration:
		constants, err := appendConstant(rec.Constants, attrConstants, c, func(s string) string { return s })
		if err != nil {
			return err
		}
		rec.Constants = constants
		return nil

	default:
		if err := c.expectValue(attrType, 2); err != nil {
			return err
		}
		return a.set.set(attrType, c, &rec.Type, c.value())
	}
}

func (a *typeAssembler) header() (string, bool) {
	return a.rec.Header, a.set[attrHeader]
}

func (a *typeAssembler) commit(h *model.HeaderRecord, private bool) {
	rec := a.rec
	switch rec.Kind {
	case model.KindStructure:
		if rec.Elements == nil {
			rec.Elements = []model.StructElement{}
		}
	case model.KindEnumeration:
		if rec.Constants == nil {
			rec.Constants = []model.EnumConstant{}
		}
	}
	rec.Private = private
	h.Types = append(h.Types, rec)
}
