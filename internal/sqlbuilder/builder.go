// Package sqlbuilder provides parameterized SQL statement construction.
//
// Statements are described fluently (squirrel builders) and rendered to
// (sql, args) pairs with `?` markers. The marker convention of the target
// driver is applied once per execution via Style.Rebind, keeping statement
// construction engine-agnostic.
package sqlbuilder

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Sqlizer is the contract every statement satisfies: render the statement to
// SQL text and an ordered argument list, or report a build error.
type Sqlizer interface {
	ToSql() (string, []interface{}, error)
}

// Style selects the placeholder convention of the target driver.
type Style int

const (
	// Question keeps `?` markers as-is (MySQL and SQLite conventions).
	Question Style = iota

	// Dollar rewrites markers to positional `$1..$n` (Postgres convention).
	Dollar
)

// New returns the base statement builder. Statements are always built with
// `?` markers; the driver convention is applied by Rebind just before
// dispatch, not during construction.
func New() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// Rebind rewrites the placeholder markers of a rendered query for this style.
func (s Style) Rebind(query string) (string, error) {
	if s != Dollar {
		return query, nil
	}
	rebound, err := sq.Dollar.ReplacePlaceholders(query)
	if err != nil {
		return "", fmt.Errorf("failed to rebind placeholders: %w", err)
	}
	return rebound, nil
}

// Build renders a statement and rebinds its placeholders in one step.
// A malformed statement description (for example an insert without values)
// surfaces here as a build error; nothing is sent to the database.
func Build(stmt Sqlizer, style Style) (string, []interface{}, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build sql: %w", err)
	}

	query, err = style.Rebind(query)
	if err != nil {
		return "", nil, err
	}

	return query, args, nil
}
