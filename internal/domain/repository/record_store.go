package repository

import (
	"context"
	"fmt"
)

// Operator is a comparison used by a Filter
type Operator string

const (
	OpEq  Operator = "eq"
	OpGte Operator = "gte"
	OpLte Operator = "lte"
)

// Filter restricts a query on one column
type Filter struct {
	Column string
	Op     Operator
	Value  any
}

// Query describes a row-level query against one table
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Where appends a filter and returns the query for chaining
func (q *Query) Where(column string, op Operator, value any) *Query {
	q.Filters = append(q.Filters, Filter{Column: column, Op: op, Value: value})
	return q
}

// Validate rejects column names that are not plain identifiers
func (q *Query) Validate() error {
	if q == nil {
		return nil
	}
	for _, f := range q.Filters {
		if !isIdentifier(f.Column) {
			return fmt.Errorf("invalid filter column %q", f.Column)
		}
		switch f.Op {
		case OpEq, OpGte, OpLte:
		default:
			return fmt.Errorf("unsupported operator %q", f.Op)
		}
	}
	if q.OrderBy != "" && !isIdentifier(q.OrderBy) {
		return fmt.Errorf("invalid order column %q", q.OrderBy)
	}
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("limit and offset must not be negative")
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// RecordStore is the external store mood data is persisted in.
// Implementations return store-side failures with the store's own message.
type RecordStore interface {
	// Insert writes one record into table in a single call
	Insert(ctx context.Context, table string, record any) error

	// Select reads rows matching q into dest, a pointer to a slice
	Select(ctx context.Context, table string, q *Query, dest any) error

	// Count counts rows matching q, ignoring order, limit and offset
	Count(ctx context.Context, table string, q *Query) (int64, error)
}
