package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	mapset "github.com/deckarep/golang-set/v2"
)

// ErrBadFilter is returned when a filter expression does not parse or
// references a column outside the caller's allow-list.
var ErrBadFilter = errors.New("invalid filter expression")

// The filter language is a flat AND-joined list of comparisons:
//
//	status = 'active' AND slot >= 2 AND name LIKE 'CT%'
//
// Operators: = != < <= > >= LIKE. Values are single-quoted strings or
// numbers. Keywords are upper-case. Columns are checked against the
// caller's allow-list so a filter can never reach beyond the entity's own
// projection.
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "whitespace", Pattern: `\s+`},
	{Name: "Op", Pattern: `!=|<=|>=|=|<|>`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "String", Pattern: `'[^']*'`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?`},
})

type filterValue struct {
	Str *string `parser:"  @String"`
	Num *string `parser:"| @Number"`
}

type filterCond struct {
	Column string      `parser:"@Ident"`
	Op     string      `parser:"@(Op | 'LIKE')"`
	Value  filterValue `parser:"@@"`
}

type filterExpr struct {
	First filterCond   `parser:"@@"`
	Rest  []filterCond `parser:"('AND' @@)*"`
}

var filterParser = participle.MustBuild[filterExpr](
	participle.Lexer(filterLexer),
	participle.Unquote("String"),
)

// CompileFilter translates a filter expression into a parameterized
// predicate plus its bind arguments (already Named after their columns).
// An empty expression compiles to an empty predicate.
func CompileFilter(input string, allowedColumns []string) (string, []any, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil, nil
	}

	expr, err := filterParser.ParseString("", input)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadFilter, err)
	}

	allowed := mapset.NewThreadUnsafeSet(allowedColumns...)
	conds := append([]filterCond{expr.First}, expr.Rest...)

	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		if !allowed.Contains(c.Column) {
			return "", nil, fmt.Errorf("%w: unknown column %q", ErrBadFilter, c.Column)
		}
		parts = append(parts, c.Column+" "+c.Op+" ?")
		args = append(args, Named(c.Column, c.Value.bind()))
	}
	return strings.Join(parts, " AND "), args, nil
}

// bind returns the Go value for a literal: string, int64 for integral
// numbers, float64 otherwise.
func (v filterValue) bind() any {
	if v.Str != nil {
		return *v.Str
	}
	if v.Num != nil {
		if i, err := strconv.ParseInt(*v.Num, 10, 64); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(*v.Num, 64)
		return f
	}
	return nil
}
