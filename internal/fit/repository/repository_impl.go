package repository

import (
	"context"

	fitdomain "github.com/lostfits/lostfits/internal/fit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() fitdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, fit *fitdomain.Fit) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO fit (fit_id, killmail_id, ship_type_id, fit_signature, slot_counts, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fit.FitID,
		fit.KillmailID,
		fit.ShipTypeID,
		fit.FitSignature,
		fit.SlotCounts,
		fit.CreatedAt,
	).Error
}

func (r *repo) FindByKillmail(ctx context.Context, db *gorm.DB, killmailID int64) (*fitdomain.Fit, error) {
	var fit fitdomain.Fit
	err := db.WithContext(ctx).Raw(
		`SELECT fit_id, killmail_id, ship_type_id, fit_signature, slot_counts, created_at
		 FROM fit WHERE killmail_id = ?`,
		killmailID,
	).Scan(&fit).Error
	if err != nil {
		return nil, err
	}
	if fit.FitID == 0 {
		return nil, nil
	}
	return &fit, nil
}
