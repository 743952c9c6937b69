package store

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	dialectPostgres = "postgres"

	tableCategories = "categories"
	tableBooks      = "books"

	aliasBook     = "b"
	aliasCategory = "c"

	colID          = "id"
	colName        = "name"
	colDescription = "description"
	colCategoryID  = "category_id"
)

var dialect = goqu.Dialect(dialectPostgres)

// selectCategories lists categories by id.
func selectCategories() *goqu.SelectDataset {
	return dialect.From(tableCategories).
		Select(colID, colName).
		Order(goqu.I(colID).Asc()).
		Prepared(true)
}

// selectBooks joins each book to its category, which is absent once the
// category has been deleted.
func selectBooks() *goqu.SelectDataset {
	b, c := goqu.T(aliasBook), goqu.T(aliasCategory)
	return dialect.From(goqu.T(tableBooks).As(aliasBook)).
		LeftJoin(
			goqu.T(tableCategories).As(aliasCategory),
			goqu.On(b.Col(colCategoryID).Eq(c.Col(colID))),
		).
		Select(
			b.Col(colID),
			b.Col(colName),
			b.Col(colDescription),
			c.Col(colID),
			c.Col(colName),
		).
		Order(b.Col(colID).Asc()).
		Prepared(true)
}

func bookCol(col string) exp.IdentifierExpression {
	return goqu.T(aliasBook).Col(col)
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func build(b sqlBuilder) (string, []any, error) {
	sql, args, err := b.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build query: %w", err)
	}
	return sql, args, nil
}
