package config

import "github.com/iancoleman/strcase"

// NamingConvention translates between the GraphQL surface (camelCase fields,
// PascalCase types) and the PostgreSQL storage convention (snake_case
// columns and views).
type NamingConvention interface {
	ToSQLColumn(name string) string
	ToSQLView(name string) string

	ToGraphQLField(name string) string
	ToGraphQLType(name string) string
}

type defaultNaming struct {
}

func NewDefaultNaming() *defaultNaming {
	return &defaultNaming{}
}

func (n *defaultNaming) ToSQLColumn(name string) string {
	return strcase.ToSnake(name)
}

func (n *defaultNaming) ToSQLView(name string) string {
	return strcase.ToSnake(name)
}

func (n *defaultNaming) ToGraphQLField(name string) string {
	return strcase.ToLowerCamel(name)
}

func (n *defaultNaming) ToGraphQLType(name string) string {
	return strcase.ToCamel(name)
}
