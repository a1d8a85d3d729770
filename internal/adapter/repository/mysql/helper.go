package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"syndicated-loan-service/internal/domain/apperr"
)

type scope = func(*gorm.DB) *gorm.DB

// forUpdate issues SELECT ... FOR UPDATE on dialects that support it.
func forUpdate(q *gorm.DB) *gorm.DB {
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ordered preloads an association in insertion order.
func ordered(assoc string) scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Preload(assoc, func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}
}

func findByID[T any](ctx context.Context, db *gorm.DB, resource string, id uint64, scopes ...scope) (*T, error) {
	var out T
	q := db.WithContext(ctx)
	for _, s := range scopes {
		q = s(q)
	}
	if err := q.Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(resource, id)
		}
		return nil, fmt.Errorf("find %s %d: %w", resource, id, err)
	}
	return &out, nil
}

func existsByID[T any](ctx context.Context, db *gorm.DB, id uint64) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, resource string, id uint64) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", resource, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(resource, id)
	}
	return nil
}

// saveVersioned writes every column of model guarded by its current version
// and bumps the version. A stale copy matches no row and yields a conflict.
// Child associations are never touched here.
func saveVersioned(ctx context.Context, db *gorm.DB, resource string, id uint64, version *int64, model any) error {
	prev := *version
	*version = prev + 1
	res := db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit(clause.Associations).
		Where("version = ?", prev).
		Updates(model)
	if res.Error != nil {
		*version = prev
		return fmt.Errorf("save %s %d: %w", resource, id, res.Error)
	}
	if res.RowsAffected == 0 {
		*version = prev
		return apperr.Conflict(resource, id)
	}
	return nil
}
