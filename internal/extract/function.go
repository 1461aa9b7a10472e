package extract

import "github.com/mvp-joe/restuml2code/internal/model"

type functionAssembler struct {
	rec model.FunctionRecord
	set scalars
}

func newFunctionAssembler() *functionAssembler {
	return &functionAssembler{set: scalars{}}
}

func (a *functionAssembler) assign(row int, attr string, c cell) error {
	rec := &a.rec
	switch attr {
	case attrFunctionName, attrDescription, attrSyntax, attrHeader:
		if err := c.expectValue(attr, 2); err != nil {
			return err
		}
		dst := map[string]*string{
			attrFunctionName: &rec.Name,
			attrDescription:  &rec.Description,
			attrSyntax:       &rec.Syntax,
			attrHeader:       &rec.Header,
		}[attr]
		return a.set.set(attr, c, dst, scalarText(attr, c))

	case attrAllowedFromISR:
		if err := c.expect(attr, 2); err != nil {
			return err
		}
		return a.set.setBool(attr, c, &rec.AllowedFromISR, containsYes(c.text))

	case attrIsReentrant:
		if err := c.expect(attr, 2); err != nil {
			return err
		}
		return a.set.setBool(attr, c, &rec.IsReentrant, c.text == "Reentrant" || containsYes(c.text))

	case attrReturnValue:
		if err := c.expect(attr, 2, 3); err != nil {
			return err
		}
		if c.column == 2 {
			if rec.ReturnValue != nil {
				return lineErr(c.line, ErrDuplicateAttribute, "%s", attr)
			}
			typ := c.text
			if typ == "None" || typ == "none" {
				typ = "void"
			}
			rec.ReturnValue = &model.ReturnValue{Type: typ}
			return nil
		}
		if rec.ReturnValue == nil {
			return lineErr(c.line, ErrSyntax, "%s description without a type", attr)
		}
		rec.ReturnValue.Description = appendDescription(rec.ReturnValue.Description, c.text)
		return nil

	case attrInParams, attrOutParams, attrInOutParams:
		dst := map[string]*[]model.Param{
			attrInParams:    &rec.InParams,
			attrOutParams:   &rec.OutParams,
			attrInOutParams: &rec.InOutParams,
		}[attr]
		params, err := appendParam(*dst, attr, c)
		if err != nil {
			return err
		}
		*dst = params
		return nil
	}
	return lineErr(c.line, ErrSyntax, "attribute %s not valid in row %d", attr, row)
}

func (a *functionAssembler) header() (string, bool) {
	return a.rec.Header, a.set[attrHeader]
}

// finish fills defaults for absent parameter lists and stamps the section flag.
func (a *functionAssembler) finish(private bool) model.FunctionRecord {
	rec := a.rec
	if rec.InParams == nil {
		rec.InParams = []model.Param{}
	}
	if rec.OutParams == nil {
		rec.OutParams = []model.Param{}
	}
	if rec.InOutParams == nil {
		rec.InOutParams = []model.Param{}
	}
	rec.Private = private
	return rec
}

func (a *functionAssembler) commit(h *model.HeaderRecord, private bool) {
	h.Functions = append(h.Functions, a.finish(private))
}
