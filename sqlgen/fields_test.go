package sqlgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-go/types"
)

func TestResolveFieldPrecedence(t *testing.T) {
	hybrid := types.NewTableShape([]string{"id", "status", "tenant_id"}, "data")

	items := []struct {
		field string
		sql   string
		jsonb bool
	}{
		// native columns win over the JSONB payload, even when the payload
		// carries the same key
		{"status", `"status"`, false},
		{"tenant_id", `"tenant_id"`, false},
		{"email", `"data" ->> 'email'`, true},
	}

	for _, item := range items {
		expr, err := ResolveField(item.field, hybrid)
		require.NoError(t, err)
		assert.Equal(t, item.sql, expr.SQL)
		assert.Equal(t, item.jsonb, expr.JSONB)
	}
}

func TestResolveFieldIDFallback(t *testing.T) {
	// Unknown column set: id is assumed to be promoted to a native column.
	unknown := &types.TableShape{JSONBColumn: "data"}
	expr, err := ResolveField("id", unknown)
	require.NoError(t, err)
	assert.Equal(t, `"id"`, expr.SQL)
	assert.False(t, expr.JSONB)

	expr, err = ResolveField("email", unknown)
	require.NoError(t, err)
	assert.True(t, expr.JSONB)

	// A known column set without id means id really lives in the payload.
	known := types.NewTableShape([]string{"pk"}, "data")
	expr, err = ResolveField("id", known)
	require.NoError(t, err)
	assert.Equal(t, `"data" ->> 'id'`, expr.SQL)
	assert.True(t, expr.JSONB)
}

func TestResolveFieldFailure(t *testing.T) {
	items := []struct {
		name  string
		shape *types.TableShape
		field string
	}{
		{"column-only shape", types.NewTableShape([]string{"a"}, ""), "b"},
		{"no metadata at all", &types.TableShape{}, "anything"},
	}

	for _, item := range items {
		_, err := ResolveField(item.field, item.shape)
		require.Error(t, err, item.name)
		assert.True(t, errors.Is(err, types.ErrFieldResolution), item.name)
	}
}

func TestFieldExprTarget(t *testing.T) {
	native := FieldExpr{SQL: `"age"`}
	assert.Equal(t, `"age"`, native.Target())
	assert.Equal(t, `"age"`, native.element())

	jsonb := FieldExpr{SQL: `"data" ->> 'age'`, JSONB: true}
	assert.Equal(t, `("data" ->> 'age')`, jsonb.Target())
	assert.Equal(t, `("data" -> 'age')`, jsonb.element())
}

func TestQuoteQualified(t *testing.T) {
	assert.Equal(t, `"v_user"`, quoteQualified("v_user"))
	assert.Equal(t, `"public"."v_user"`, quoteQualified("public.v_user"))
}
