package sqlgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-go/types"
)

func intPtr(v int) *int { return &v }

func TestBuildSelect(t *testing.T) {
	shape := types.NewTableShape(nil, "data")
	clause := types.NewFilterClause()
	clause.Add("email", types.OperatorEq, "a@b.com")

	q, err := NewCompiler().BuildSelect(
		"public.v_user",
		clause,
		[]types.OrderField{{Field: "email", Descending: true}},
		&types.QueryOptions{Limit: intPtr(20), Offset: intPtr(40)},
		shape,
	)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "data"::text FROM "public"."v_user"`+
			` WHERE ("data" ->> 'email') = $1`+
			` ORDER BY ("data" ->> 'email') DESC`+
			` LIMIT $2 OFFSET $3`,
		q.Statement)
	assert.Equal(t, []interface{}{"a@b.com", 20, 40}, q.Params)
}

func TestBuildSelectColumnProjection(t *testing.T) {
	shape := types.NewTableShape([]string{"id", "email"}, "")
	clause := types.NewFilterClause()
	clause.Add("email", types.OperatorEq, "a@b.com")

	q, err := NewCompiler().BuildSelect("users", clause, nil, nil, shape)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT row_to_json(t)::text FROM "users" AS t WHERE "email" = $1`,
		q.Statement)
}

func TestBuildSelectEmptyFilter(t *testing.T) {
	shape := types.NewTableShape(nil, "data")

	q, err := NewCompiler().BuildSelect("v_user", nil, nil, nil, shape)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "data"::text FROM "v_user" WHERE TRUE`, q.Statement)
	assert.Empty(t, q.Params)
}

func TestBuildSelectOrderByCasts(t *testing.T) {
	shape := types.NewTableShape(nil, "data")

	q, err := NewCompiler().BuildSelect("v_user", nil,
		[]types.OrderField{
			{Field: "age", Cast: types.OrderCastNumeric},
			{Field: "created_at", Cast: types.OrderCastTimestamp, Descending: true},
			{Field: "email", Cast: types.OrderCastText},
		},
		nil, shape)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "data"::text FROM "v_user" WHERE TRUE ORDER BY `+
			`("data" ->> 'age')::numeric ASC, `+
			`("data" ->> 'created_at')::timestamptz DESC, `+
			`("data" ->> 'email') ASC`,
		q.Statement)
}

func TestBuildSelectOrderByResolution(t *testing.T) {
	shape := types.NewTableShape([]string{"age"}, "")

	_, err := NewCompiler().BuildSelect("users", nil,
		[]types.OrderField{{Field: "email"}}, nil, shape)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrFieldResolution))

	var resErr *types.FieldResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "users", resErr.View)
}

func TestBuildSelectOneForcesLimit(t *testing.T) {
	shape := types.NewTableShape(nil, "data")
	clause := types.NewFilterClause()
	clause.Add("id", types.OperatorEq, "5f0c8e1a-9f47-4e37-a0cd-6a3d6a1fd8d2")

	// a caller-supplied limit never survives a find-one
	q, err := NewCompiler().BuildSelectOne("v_user", clause, nil,
		&types.QueryOptions{Limit: intPtr(50)}, shape)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "data"::text FROM "v_user" WHERE "id" = $1 LIMIT $2`,
		q.Statement)
	assert.Equal(t, []interface{}{"5f0c8e1a-9f47-4e37-a0cd-6a3d6a1fd8d2", 1}, q.Params)
}

func TestBuildSelectOffsetWithoutLimit(t *testing.T) {
	shape := types.NewTableShape(nil, "data")

	q, err := NewCompiler().BuildSelect("v_user", nil, nil,
		&types.QueryOptions{Offset: intPtr(30)}, shape)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "data"::text FROM "v_user" WHERE TRUE OFFSET $1`, q.Statement)
	assert.Equal(t, []interface{}{30}, q.Params)
}

func TestBuildSelectPlaceholderContinuity(t *testing.T) {
	// pagination binds continue the numbering started by the filter
	shape := types.NewTableShape([]string{"status"}, "data")
	clause := types.NewFilterClause()
	clause.Add("status", types.OperatorEq, "active")
	clause.Add("age", types.OperatorGte, 18)

	q, err := NewCompiler().BuildSelect("v_user", clause, nil,
		&types.QueryOptions{Limit: intPtr(10), Offset: intPtr(20)}, shape)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "data"::text FROM "v_user"`+
			` WHERE "status" = $1 AND ("data" ->> 'age')::numeric >= $2`+
			` LIMIT $3 OFFSET $4`,
		q.Statement)
	assert.Equal(t, []interface{}{"active", 18, 10, 20}, q.Params)
}
