package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mindnest/wellness/internal/domain/repository"
)

// GormStore implements repository.RecordStore on the application database
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a record store backed by db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ repository.RecordStore = (*GormStore)(nil)

// Error is a failure the database reported for a table operation
type Error struct {
	Table string
	Err   error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StoreMessage returns the driver's message unchanged
func (e *Error) StoreMessage() string {
	return e.Err.Error()
}

// wrapErr tags driver errors; cancelled or expired contexts pass through as is
func wrapErr(table string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &Error{Table: table, Err: err}
}

// Insert writes record into table. Driver errors come back as *Error so
// their message reaches the user as the database reported it.
func (s *GormStore) Insert(ctx context.Context, table string, record any) error {
	return wrapErr(table, s.db.WithContext(ctx).Table(table).Create(record).Error)
}

func (s *GormStore) scoped(ctx context.Context, table string, q *repository.Query) (*gorm.DB, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Table(table)
	if q == nil {
		return tx, nil
	}
	for _, f := range q.Filters {
		switch f.Op {
		case repository.OpEq:
			tx = tx.Where(fmt.Sprintf("%s = ?", f.Column), f.Value)
		case repository.OpGte:
			tx = tx.Where(fmt.Sprintf("%s >= ?", f.Column), f.Value)
		case repository.OpLte:
			tx = tx.Where(fmt.Sprintf("%s <= ?", f.Column), f.Value)
		}
	}
	return tx, nil
}

// Select reads rows matching q into dest
func (s *GormStore) Select(ctx context.Context, table string, q *repository.Query, dest any) error {
	tx, err := s.scoped(ctx, table, q)
	if err != nil {
		return err
	}
	if q != nil {
		if q.OrderBy != "" {
			order := q.OrderBy + " ASC"
			if q.Desc {
				order = q.OrderBy + " DESC"
			}
			tx = tx.Order(order)
		}
		if q.Limit > 0 {
			tx = tx.Limit(q.Limit)
		}
		if q.Offset > 0 {
			tx = tx.Offset(q.Offset)
		}
	}
	return wrapErr(table, tx.Find(dest).Error)
}

// Count counts rows matching q
func (s *GormStore) Count(ctx context.Context, table string, q *repository.Query) (int64, error) {
	tx, err := s.scoped(ctx, table, q)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, wrapErr(table, err)
	}
	return total, nil
}
