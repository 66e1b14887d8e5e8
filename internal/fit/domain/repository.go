package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, fit *Fit) error
	FindByKillmail(ctx context.Context, db *gorm.DB, killmailID int64) (*Fit, error)
}
