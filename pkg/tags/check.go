package tags

import (
	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/schema"
)

// Check rejects a tag whose kind does not accept the field's category or,
// for kinds with a fixed operand type, the field's exact element type. It
// also bounds literal array indices against the field's length.
func Check(tag Tag, field schema.Field) error {
	if tag.Kind == nil {
		return nil
	}
	category := field.Type.Category
	if !tag.Kind.AcceptsCategory(category) {
		return diag.Errorf(diag.TypeIncompatible, tag.Pos,
			"widget kind '%s' cannot bind field '%s' of category %s (accepts %s)",
			tag.Kind.Name, field.Name, category, categoryList(tag.Kind.Accepts))
	}
	if operand := tag.Kind.Operand; operand != "" && field.Type.Elem != operand {
		what := "type"
		if isArray(category) {
			what = "element type"
		}
		return diag.Errorf(diag.TypeIncompatible, tag.Pos,
			"widget kind '%s' binds %s values, field '%s' has %s %s",
			tag.Kind.Name, operand, field.Name, what, field.Type.Elem)
	}

	if !isArray(category) || field.Type.Len < 0 {
		return nil
	}
	for _, value := range tag.Values {
		if !value.Param.Index || !value.Set || value.Lit.Kind != directive.LitInt {
			continue
		}
		if idx := value.Lit.Int; idx < 0 || idx >= int64(field.Type.Len) {
			pos := value.Lit.Pos
			if !pos.IsValid() {
				pos = tag.Pos
			}
			return diag.Errorf(diag.IndexOutOfRange, pos,
				"%s index %d out of range [0, %d) for field '%s'",
				value.Param.Name, idx, field.Type.Len, field.Name)
		}
	}
	return nil
}

// NeedsGuard reports whether v must be bounds-checked when the generated
// routine runs, because its value is unknown until then.
func NeedsGuard(v Value, field schema.Field) bool {
	if !v.Param.Index || !v.Set || !isArray(field.Type.Category) {
		return false
	}
	return v.Lit.Kind == directive.LitWord || field.Type.Len < 0
}

func isArray(c schema.Category) bool {
	return c == schema.NumericArray || c == schema.FixedStringArray
}

func categoryList(categories []schema.Category) string {
	out := ""
	for idx, c := range categories {
		if idx > 0 {
			out += ", "
		}
		out += c.String()
	}
	return out
}
