package sqlgen

import (
	"strings"

	"github.com/lib/pq"

	"github.com/fraiseql/fraiseql-go/types"
)

// FieldExpr is the SQL target expression a logical field resolved to:
// either a quoted native column reference or a JSONB text extraction.
type FieldExpr struct {
	SQL   string
	JSONB bool
}

// Target returns the expression as written into comparisons. JSONB
// extractions are parenthesized so casts apply to the whole extraction.
func (e FieldExpr) Target() string {
	if e.JSONB {
		return "(" + e.SQL + ")"
	}
	return e.SQL
}

// element returns the expression used for element-containment tests: the
// JSONB value itself (->) rather than its text projection (->>).
func (e FieldExpr) element() string {
	if e.JSONB {
		return "(" + strings.Replace(e.SQL, " ->> ", " -> ", 1) + ")"
	}
	return e.SQL
}

// ResolveField maps a logical field name onto a SQL target expression for
// the given table shape. The precedence is fixed:
//
//  1. A name present in NativeColumns is always the native column, even on
//     hybrid tables whose JSONB payload carries the same key. Fields
//     promoted to real columns (typically foreign keys) must win.
//  2. Otherwise, with a JSONB payload column configured, the name is a key
//     inside that document, extracted as text. Exception: "id" with an
//     unknown column set resolves to a native column, since the public id
//     is promoted to a column even in JSONB-heavy schemas.
//  3. Otherwise resolution fails with a FieldResolutionError. There is no
//     name-pattern guessing: shapes are explicit.
func ResolveField(name string, shape *types.TableShape) (FieldExpr, error) {
	if shape.HasColumn(name) {
		return FieldExpr{SQL: pq.QuoteIdentifier(name)}, nil
	}
	if shape.JSONBColumn != "" {
		if name == "id" && shape.NativeColumns == nil {
			return FieldExpr{SQL: pq.QuoteIdentifier(name)}, nil
		}
		return FieldExpr{
			SQL:   pq.QuoteIdentifier(shape.JSONBColumn) + " ->> " + pq.QuoteLiteral(name),
			JSONB: true,
		}, nil
	}
	return FieldExpr{}, &types.FieldResolutionError{Field: name}
}

// quoteQualified quotes a possibly schema-qualified view name
// ("schema.view" or "view"), quoting each part separately.
func quoteQualified(view string) string {
	if i := strings.IndexByte(view, '.'); i >= 0 {
		return pq.QuoteIdentifier(view[:i]) + "." + pq.QuoteIdentifier(view[i+1:])
	}
	return pq.QuoteIdentifier(view)
}
