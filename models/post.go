package models

import "gallery/db"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type Post struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Title       string `gorm:"type:varchar(300);not null"`
	Slug        string `gorm:"type:varchar(300);index:uniq_post_slug,unique;not null"`
	Summary     string `gorm:"type:text"`
	Markdown    string `gorm:"type:text"`
	Status      string `gorm:"type:varchar(20);not null;default:draft"`
	PublishedAt *int64
	CreatedByID *uint64
	CreatedBy   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func NormalizePostStatus(status string) string {
	if status == PostStatusPublished {
		return PostStatusPublished
	}
	return PostStatusDraft
}

func PostByID(id uint64) (*Post, error) {
	post := Post{}
	if err := db.Instance.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func PostBySlug(slug string) (*Post, error) {
	post := Post{}
	if err := db.Instance.Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}
