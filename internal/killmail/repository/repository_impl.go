package repository

import (
	"context"
	"time"

	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() killmaildomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, km *killmaildomain.Killmail) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO killmail_raw (killmail_id, killmail_hash, kill_time, solar_system_id, victim_ship_type_id, payload, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		km.KillmailID,
		km.KillmailHash,
		km.KillTime,
		km.SolarSystemID,
		km.VictimShipTypeID,
		km.Payload,
		km.IngestedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, killmailID int64) (*killmaildomain.Killmail, error) {
	var km killmaildomain.Killmail
	err := db.WithContext(ctx).Raw(
		`SELECT killmail_id, killmail_hash, kill_time, solar_system_id, victim_ship_type_id, payload, ingested_at
		 FROM killmail_raw WHERE killmail_id = ?`,
		killmailID,
	).Scan(&km).Error
	if err != nil {
		return nil, err
	}
	if km.KillmailID == 0 {
		return nil, nil
	}
	return &km, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter killmaildomain.ListFilter) ([]killmaildomain.Killmail, error) {
	query := `SELECT killmail_id, killmail_hash, kill_time, solar_system_id, victim_ship_type_id, payload, ingested_at
		 FROM killmail_raw WHERE 1=1`
	args := []any{}
	if filter.ShipTypeID != 0 {
		query += " AND victim_ship_type_id = ?"
		args = append(args, filter.ShipTypeID)
	}
	if !filter.Since.IsZero() {
		query += " AND kill_time >= ?"
		args = append(args, filter.Since)
	}
	if !filter.Until.IsZero() {
		query += " AND kill_time < ?"
		args = append(args, filter.Until)
	}
	query += " ORDER BY killmail_id DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	var records []killmaildomain.Killmail
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) DistinctVictimShipTypes(ctx context.Context, db *gorm.DB) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT victim_ship_type_id FROM killmail_raw WHERE victim_ship_type_id IS NOT NULL`,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) ListPayloads(ctx context.Context, db *gorm.DB, fn func(killmailID int64, payload []byte) error) error {
	rows, err := db.WithContext(ctx).Raw(
		`SELECT killmail_id, payload FROM killmail_raw ORDER BY killmail_id`,
	).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			killmailID int64
			payload    []byte
		)
		if err := rows.Scan(&killmailID, &payload); err != nil {
			return err
		}
		if err := fn(killmailID, payload); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *repo) KillTimeBounds(ctx context.Context, db *gorm.DB) (*time.Time, *time.Time, error) {
	var bounds struct {
		MinTime *time.Time `gorm:"column:min_time"`
		MaxTime *time.Time `gorm:"column:max_time"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT MIN(kill_time) AS min_time, MAX(kill_time) AS max_time
		 FROM killmail_raw WHERE kill_time IS NOT NULL`,
	).Scan(&bounds).Error
	if err != nil {
		return nil, nil, err
	}
	return bounds.MinTime, bounds.MaxTime, nil
}
