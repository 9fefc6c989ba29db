// Package bigquery registers the dialect.Strategy for
// @Engine("bigquery") (§4.5, §6). BigQuery's array/struct literal
// syntax and backtick-quoted identifiers come straight from
// cloud.google.com/go/bigquery's query builder conventions.
package bigquery

import (
	"context"
	"fmt"
	"strings"

	gobigquery "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/logica-lang/logica/dialect"
)

func init() {
	dialect.Register(dialect.BigQuery, strategy{})
}

type strategy struct{}

func (strategy) Name() string { return dialect.BigQuery }

// QuoteIdent backtick-quotes, BigQuery's standard SQL identifier form.
func (strategy) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}

func (strategy) BoolLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// SupportsRecursiveCTE is false: standard SQL has no WITH RECURSIVE, so
// dialect/sql.Write opens the program with a plain WITH. Recursive
// predicates do not depend on it: Universe.Compile unrolls them to N
// iterations for every dialect (§4.4 step 5).
func (strategy) SupportsRecursiveCTE() bool { return false }

func (strategy) LimitOffset(limit, offset int) string {
	if limit < 0 {
		return ""
	}
	if offset < 0 {
		return fmt.Sprintf("LIMIT %d", limit)
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
}

// IntDiv uses SAFE_DIVIDE to avoid BigQuery's division-by-zero error,
// then truncates toward zero with CAST(... AS INT64) the way Logica's
// integer division is specified to behave.
func (strategy) IntDiv(left, right string) string {
	return fmt.Sprintf("CAST(TRUNC(SAFE_DIVIDE(%s, %s)) AS INT64)", left, right)
}

// ArgAggregate uses BigQuery's own ARRAY_AGG(... ORDER BY ... LIMIT
// 1)[OFFSET(0)], the exact idiom §4.5 names for dialects without a
// native ARG_MAX/ARG_MIN aggregate.
func (strategy) ArgAggregate(desc bool, valueExpr, keyExpr string) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ARRAY_AGG(%s ORDER BY %s %s LIMIT 1)[OFFSET(0)]", valueExpr, keyExpr, dir)
}

// bigqueryBuiltins maps §9(b)'s dialect-dependent built-ins to
// BigQuery's standard SQL function names. Element has no function-call
// spelling in BigQuery (array indexing is the subscript form
// "arr[OFFSET(i)]", not a callable) so it is left unmapped; a program
// using it against @Engine("bigquery") fails at codegen with a
// DialectError, same policy as the other dialects (DESIGN.md).
var bigqueryBuiltins = map[string]string{
	"Size":          "ARRAY_LENGTH",
	"ArrayToString": "ARRAY_TO_STRING",
	"RecordAsJson":  "TO_JSON_STRING",
}

func (strategy) Builtin(name string) (string, bool) {
	s, ok := bigqueryBuiltins[name]
	return s, ok
}

// Run executes query against projectID using cloud.google.com/go/bigquery
// directly (BigQuery has no database/sql driver, per dialect.Open's doc
// comment) and collects every row as a slice of column values in
// declaration order, for the `run` CLI collaborator (§6).
func Run(ctx context.Context, projectID, query string) ([][]gobigquery.Value, error) {
	client, err := gobigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery: connecting to %q: %w", projectID, err)
	}
	defer client.Close()

	it, err := client.Query(query).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("bigquery: running query: %w", err)
	}

	var rows [][]gobigquery.Value
	for {
		var row []gobigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bigquery: reading row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
