package models

import "gallery/db"

type Album struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Title       string `gorm:"type:varchar(300);not null"`
	Slug        string `gorm:"type:varchar(300);index:uniq_album_slug,unique;not null"`
	Description string `gorm:"type:text"`
	CreatedByID *uint64
	CreatedBy   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func AlbumByID(id uint64) (*Album, error) {
	album := Album{}
	if err := db.Instance.First(&album, id).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

func AlbumBySlug(slug string) (*Album, error) {
	album := Album{}
	if err := db.Instance.Where("slug = ?", slug).First(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}
