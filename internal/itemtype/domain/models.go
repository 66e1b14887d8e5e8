package domain

// ItemType is an immutable reference record mirrored from ESI. SlotHint is a
// coarse local classification, not ESI data.
type ItemType struct {
	TypeID      int64   `json:"type_id" gorm:"column:type_id;primaryKey;autoIncrement:false"`
	Name        string  `json:"name" gorm:"column:name;type:varchar(255);not null"`
	GroupID     *int64  `json:"group_id" gorm:"column:group_id"`
	CategoryID  *int64  `json:"category_id" gorm:"column:category_id"`
	MetagroupID *int    `json:"metagroup_id" gorm:"column:metagroup_id"`
	SlotHint    *string `json:"slot_hint" gorm:"column:slot_hint;type:varchar(16)"`
}

// TableName sets the database table name.
func (ItemType) TableName() string { return "item_type" }

// SeedReport summarizes one seeding pass over the stored killmails.
type SeedReport struct {
	Discovered   int `json:"discovered"`
	AlreadyKnown int `json:"already_known"`
	Seeded       int `json:"seeded"`
	NotFound     int `json:"not_found"`
	Failed       int `json:"failed"`
}
