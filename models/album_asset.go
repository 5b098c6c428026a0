package models

import "gallery/db"

// AlbumAsset is the ordered album<->asset ledger. Sort order values are not
// required to be unique within an album; ties are broken by asset id.
type AlbumAsset struct {
	AlbumID   uint64 `gorm:"primaryKey"`
	Album     Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssetID   uint64 `gorm:"primaryKey"`
	Asset     Asset  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SortOrder int    `gorm:"not null;default:0"`
	CreatedAt int64
}

// AppendToAlbum adds the asset at the end of the album.
func AppendToAlbum(albumID, assetID uint64) error {
	var maxOrder *int
	err := db.Instance.
		Table("album_assets").
		Select("max(sort_order)").
		Where("album_id = ?", albumID).
		Scan(&maxOrder).Error
	if err != nil {
		return err
	}
	next := 0
	if maxOrder != nil {
		next = *maxOrder + 1
	}
	return db.Instance.Create(&AlbumAsset{AlbumID: albumID, AssetID: assetID, SortOrder: next}).Error
}

func RemoveFromAlbum(albumID, assetID uint64) error {
	return db.Instance.Exec("delete from album_assets where album_id = ? and asset_id = ?", albumID, assetID).Error
}

// ReorderAlbum rewrites sort_order to match the given asset id sequence.
func ReorderAlbum(albumID uint64, assetIDs []uint64) error {
	for i, assetID := range assetIDs {
		err := db.Instance.
			Model(&AlbumAsset{}).
			Where("album_id = ? and asset_id = ?", albumID, assetID).
			Update("sort_order", i).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// AlbumAssetIDs returns the album's asset ids in display order.
func AlbumAssetIDs(albumID uint64) ([]uint64, error) {
	var ids []uint64
	err := db.Instance.
		Table("album_assets").
		Select("asset_id").
		Where("album_id = ?", albumID).
		Order("sort_order ASC, asset_id ASC").
		Scan(&ids).Error
	return ids, err
}
