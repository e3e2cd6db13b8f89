// Package query builds parameterized SQL from an entity's projected
// column list plus a predicate, and reads rows back positionally. It is
// the only layer that talks to the database; everything above it works on
// documents and column lists.
//
// Values bind by position. Arguments may be wrapped with Named so that
// error messages can say which logical value was involved without leaking
// its contents.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is the typed "zero rows where at least one was required"
// condition, distinct from schema violations and from backend failures.
var ErrNotFound = errors.New("no matching rows")

// LockMode selects row locking for reads. It is an explicit parameter on
// every read, not a global setting.
type LockMode int

const (
	LockNone LockMode = iota
	LockShared
	LockExclusive
)

// Suffix returns the SQL clause for the mode.
func (m LockMode) Suffix() string {
	switch m {
	case LockShared:
		return " FOR SHARE"
	case LockExclusive:
		return " FOR UPDATE"
	default:
		return ""
	}
}

// Arg is a positional bind value with a name kept for error messages.
type Arg struct {
	Name  string
	Value any
}

// Named wraps a bind value with a bookkeeping name.
func Named(name string, value any) Arg {
	return Arg{Name: name, Value: value}
}

// splitArgs separates bind values from their bookkeeping names. Plain
// values get a positional placeholder name.
func splitArgs(args []any) ([]any, []string) {
	values := make([]any, len(args))
	names := make([]string, len(args))
	for i, a := range args {
		if named, ok := a.(Arg); ok {
			values[i] = named.Value
			names[i] = named.Name
			continue
		}
		values[i] = a
		names[i] = fmt.Sprintf("$%d", i+1)
	}
	return values, names
}

func argList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// Select fetches rows of the projected columns from table, filtered by a
// predicate with positional placeholders. Rows come back positionally, in
// column order, ready for entity.ReadRecord.
func Select(ctx context.Context, db *gorm.DB, columns []string, table, predicate string, lock LockMode, args ...any) ([][]any, error) {
	values, names := splitArgs(args)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)
	if predicate != "" {
		b.WriteString(" WHERE ")
		b.WriteString(predicate)
	}
	b.WriteString(lock.Suffix())

	rows, err := db.WithContext(ctx).Raw(b.String(), values...).Rows()
	if err != nil {
		return nil, fmt.Errorf("select from %s (args: %s): %w", table, argList(names), err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		dest := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row from %s: %w", table, err)
		}
		out = append(out, dest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows from %s: %w", table, err)
	}
	return out, nil
}

// SelectOne fetches exactly one row; zero rows is ErrNotFound.
func SelectOne(ctx context.Context, db *gorm.DB, columns []string, table, predicate string, lock LockMode, args ...any) ([]any, error) {
	rows, err := Select(ctx, db, columns, table, predicate, lock, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		_, names := splitArgs(args)
		return nil, fmt.Errorf("%s (args: %s): %w", table, argList(names), ErrNotFound)
	}
	return rows[0], nil
}

// Insert writes one row with the given columns.
func Insert(ctx context.Context, db *gorm.DB, table string, columns []string, args ...any) error {
	if len(columns) != len(args) {
		return fmt.Errorf("insert into %s: %d columns but %d values", table, len(columns), len(args))
	}
	values, names := splitArgs(args)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)

	res := db.WithContext(ctx).Exec(sql, values...)
	if res.Error != nil {
		return fmt.Errorf("insert into %s (args: %s): %w", table, argList(names), res.Error)
	}
	return nil
}

// Update sets the given columns on rows matching the predicate. The args
// cover the SET values first, then the predicate values, all positional.
// Zero affected rows is ErrNotFound.
func Update(ctx context.Context, db *gorm.DB, table string, columns []string, predicate string, args ...any) error {
	if len(args) < len(columns) {
		return fmt.Errorf("update %s: %d columns but only %d values", table, len(columns), len(args))
	}
	values, names := splitArgs(args)

	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = ?"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", table, strings.Join(sets, ", "))
	if predicate != "" {
		b.WriteString(" WHERE ")
		b.WriteString(predicate)
	}

	res := db.WithContext(ctx).Exec(b.String(), values...)
	if res.Error != nil {
		return fmt.Errorf("update %s (args: %s): %w", table, argList(names), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update %s (args: %s): %w", table, argList(names), ErrNotFound)
	}
	return nil
}

// Delete removes rows matching the predicate. Zero affected rows is
// ErrNotFound.
func Delete(ctx context.Context, db *gorm.DB, table, predicate string, args ...any) error {
	values, names := splitArgs(args)

	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(table)
	if predicate != "" {
		b.WriteString(" WHERE ")
		b.WriteString(predicate)
	}

	res := db.WithContext(ctx).Exec(b.String(), values...)
	if res.Error != nil {
		return fmt.Errorf("delete from %s (args: %s): %w", table, argList(names), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete from %s (args: %s): %w", table, argList(names), ErrNotFound)
	}
	return nil
}
