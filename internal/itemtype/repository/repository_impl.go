package repository

import (
	"context"

	itemtypedomain "github.com/lostfits/lostfits/internal/itemtype/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() itemtypedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *itemtypedomain.ItemType) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO item_type (type_id, name, group_id, category_id, metagroup_id, slot_hint)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.TypeID,
		record.Name,
		record.GroupID,
		record.CategoryID,
		record.MetagroupID,
		record.SlotHint,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, typeID int64) (*itemtypedomain.ItemType, error) {
	var record itemtypedomain.ItemType
	err := db.WithContext(ctx).Raw(
		`SELECT type_id, name, group_id, category_id, metagroup_id, slot_hint
		 FROM item_type WHERE type_id = ?`,
		typeID,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.TypeID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) ExistingIDs(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	var found []int64
	err := db.WithContext(ctx).Raw(
		`SELECT type_id FROM item_type WHERE type_id IN ?`, ids,
	).Scan(&found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}
