package persistence

import (
	"errors"
	"strings"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// translateError maps gorm's not-found error to the domain sentinel
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// applyPaging applies whitelisted ordering and, when the filter is paged,
// offset/limit.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed SortColumns, defaultOrder string) *gorm.DB {
	if term, ok := allowed.OrderBy(filter.OrderBy, filter.OrderDir); ok {
		query = query.Order(term)
	} else {
		query = query.Order(defaultOrder)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// applySearch adds a case-insensitive match over the given columns
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + search + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		clauses[i] = c + " ILIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

// saveVersioned writes an aggregate row with optimistic locking. A root that
// was never stored is inserted; otherwise the row is updated only while it
// still carries the version the root was loaded with.
func saveVersioned(tx *gorm.DB, model interface{}, id uuid.UUID, root *shared.BaseAggregateRoot) error {
	loaded := root.LoadedVersion()
	if loaded == 0 {
		return tx.Create(model).Error
	}

	result := tx.Model(model).
		Where("id = ? AND version = ?", id, loaded).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// persisted marks root as stored when the save succeeded
func persisted(root *shared.BaseAggregateRoot, err error) error {
	if err == nil {
		root.MarkPersisted()
	}
	return err
}

// replaceChildren deletes the child rows of parentID and inserts rows.
// rows must be a slice of models (or an empty slice).
func replaceChildren(tx *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID, rows interface{}, count int) error {
	if err := tx.Where(parentColumn+" = ?", parentID).Delete(model).Error; err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return tx.Create(rows).Error
}

// deleteScoped deletes one tenant-owned row and reports ErrNotFound when
// nothing matched.
func deleteScoped(tx *gorm.DB, model interface{}, tenantID, id uuid.UUID) error {
	result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyEquals adds "column = ?" for each whitelisted filter key present
func applyEquals(query *gorm.DB, filters map[string]interface{}, columns ...string) *gorm.DB {
	for _, c := range columns {
		if v, ok := filters[c]; ok {
			query = query.Where(c+" = ?", v)
		}
	}
	return query
}
