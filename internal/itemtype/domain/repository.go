package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *ItemType) error
	FindByID(ctx context.Context, db *gorm.DB, typeID int64) (*ItemType, error)
	// ExistingIDs returns the subset of ids already present.
	ExistingIDs(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]bool, error)
}
