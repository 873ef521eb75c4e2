package db

import (
	"gorm.io/gorm"
)

// ColumnIn filters column to values. An empty list leaves the query untouched.
//
// Example usage:
//
//	db.Model(&Model{}).Scopes(db.ColumnIn("status", []string{"submitted", "assigned"})).Find(&rows)
func ColumnIn(column string, values []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(values) == 0 {
			return db
		}
		return db.Where(column+" IN ?", values)
	}
}

// ColumnEquals filters column to value when value is non-nil.
func ColumnEquals(column string, value *string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == nil {
			return db
		}
		return db.Where(column+" = ?", *value)
	}
}

// NewestFirst orders by column descending with id as the tie breaker.
func NewestFirst(column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " DESC").Order("id ASC")
	}
}
