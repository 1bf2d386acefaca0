package services

import (
	"fmt"

	"github.com/phibrew/vidstream-backend/internal/apperr"
	"gorm.io/gorm"
)

// PageRequest carries the caller's pagination and sort intent. Sort columns
// are validated against a per-endpoint whitelist before reaching SQL.
type PageRequest struct {
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

func (r *PageRequest) normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 10
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// orderClause builds a deterministic ORDER BY: the requested column, then
// created_at, then id. The fixed tie-breakers keep page boundaries stable
// across requests.
func (r *PageRequest) orderClause(allowed map[string]bool, fallback string) (string, error) {
	col := r.SortBy
	if col == "" {
		col = fallback
	}
	if !allowed[col] {
		return "", apperr.Wrap(apperr.ErrInvalidInput, "unsupported sort field")
	}
	dir := "ASC"
	if r.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, created_at DESC, id ASC", col, dir), nil
}

// fetchPage computes the total count and the page slice inside one read
// transaction so both come from a logically consistent snapshot.
func fetchPage(db *gorm.DB, model interface{}, scope func(*gorm.DB) *gorm.DB, order string, r PageRequest, out interface{}) (int64, error) {
	r.normalize()
	var total int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := scope(tx.Model(model)).Count(&total).Error; err != nil {
			return err
		}
		return scope(tx.Model(model)).
			Order(order).
			Offset((r.Page - 1) * r.Limit).
			Limit(r.Limit).
			Find(out).Error
	})
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrInternal, "failed to fetch page")
	}
	return total, nil
}
