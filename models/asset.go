package models

import (
	"strings"

	"gallery/db"
)

// Asset is one uploaded image plus its derived variants. KeyPrimary always
// points at the general-purpose display variant and is unique across all
// rows. The thumb/large/original columns may be empty on rows created before
// variants existed (or registered from a presigned direct upload), in which
// case KeyPrimary serves all three.
type Asset struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	KeyPrimary  string `gorm:"type:varchar(300);index:uniq_key_primary,unique;not null"`
	KeyThumb    string `gorm:"type:varchar(300)"`
	KeyLarge    string `gorm:"type:varchar(300)"`
	KeyOriginal string `gorm:"type:varchar(300)"`
	Width       *int
	Height      *int
	Name        string `gorm:"type:varchar(300)"`
	Caption     string `gorm:"type:varchar(1000)"`
	AltText     string `gorm:"type:varchar(1000)"`
	Description string `gorm:"type:text"`
	Tags        string `gorm:"type:varchar(1000)"`
	CreatedByID *uint64
	CreatedBy   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (a *Asset) ThumbKey() string {
	if a.KeyThumb != "" {
		return a.KeyThumb
	}
	return a.KeyPrimary
}

func (a *Asset) LargeKey() string {
	if a.KeyLarge != "" {
		return a.KeyLarge
	}
	return a.KeyPrimary
}

func (a *Asset) OriginalKey() string {
	if a.KeyOriginal != "" {
		return a.KeyOriginal
	}
	return a.KeyPrimary
}

// AllKeys returns the distinct storage keys held by this row.
func (a *Asset) AllKeys() []string {
	seen := map[string]bool{}
	result := []string{}
	for _, key := range []string{a.KeyPrimary, a.KeyThumb, a.KeyLarge, a.KeyOriginal} {
		key = strings.TrimPrefix(strings.TrimSpace(key), "/")
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, key)
	}
	return result
}

func AssetByID(id uint64) (*Asset, error) {
	asset := Asset{}
	err := db.Instance.First(&asset, id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// AssetsByIDs loads the given assets, returned in the order of ids.
func AssetsByIDs(ids []uint64) ([]Asset, error) {
	if len(ids) == 0 {
		return []Asset{}, nil
	}
	var rows []Asset
	if err := db.Instance.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]Asset, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	result := make([]Asset, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			result = append(result, row)
		}
	}
	return result, nil
}

// ReferencedKeySet collects every storage key held by any asset row,
// including legacy single-key rows. Used by the reclamation sweep to decide
// which listed objects are orphans.
func ReferencedKeySet() (map[string]bool, error) {
	var rows []Asset
	err := db.Instance.Select("key_primary", "key_thumb", "key_large", "key_original").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	set := map[string]bool{}
	for i := range rows {
		for _, key := range rows[i].AllKeys() {
			set[key] = true
		}
	}
	return set, nil
}
