package models

import "gallery/db"

// PostAsset records an asset embedded inline in a post's markdown. No sort
// order here - the embed position lives in the document text itself.
type PostAsset struct {
	PostID  uint64 `gorm:"primaryKey"`
	Post    Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssetID uint64 `gorm:"primaryKey"`
	Asset   Asset  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ReplacePostAssets rewrites the post's inline-reference rows wholesale,
// deduplicating ids. Called whenever a post is created or its markdown saved.
func ReplacePostAssets(postID uint64, assetIDs []uint64) error {
	if err := db.Instance.Exec("delete from post_assets where post_id = ?", postID).Error; err != nil {
		return err
	}
	seen := map[uint64]bool{}
	for _, assetID := range assetIDs {
		if assetID == 0 || seen[assetID] {
			continue
		}
		seen[assetID] = true
		if err := db.Instance.Create(&PostAsset{PostID: postID, AssetID: assetID}).Error; err != nil {
			return err
		}
	}
	return nil
}

func PostAssetIDs(postID uint64) ([]uint64, error) {
	var ids []uint64
	err := db.Instance.
		Table("post_assets").
		Select("asset_id").
		Where("post_id = ?", postID).
		Scan(&ids).Error
	return ids, err
}

// AssetReferenceCount sums the asset's rows across both ownership ledgers.
func AssetReferenceCount(assetID uint64) (int64, error) {
	var albums, posts int64
	if err := db.Instance.Table("album_assets").Where("asset_id = ?", assetID).Count(&albums).Error; err != nil {
		return 0, err
	}
	if err := db.Instance.Table("post_assets").Where("asset_id = ?", assetID).Count(&posts).Error; err != nil {
		return 0, err
	}
	return albums + posts, nil
}

func IsAssetReferenced(assetID uint64) (bool, error) {
	count, err := AssetReferenceCount(assetID)
	return count > 0, err
}
