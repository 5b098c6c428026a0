package pipeline

import (
	"errors"
	"log"
	"strings"
	"time"

	"gallery/config"
	"gallery/db"
	"gallery/models"

	"gorm.io/gorm"
)

// DeleteAlbum removes the album and its ledger rows, then reclaims every
// member asset that no other album or post still references.
func (p *Pipeline) DeleteAlbum(albumID uint64) error {
	assetIDs, err := models.AlbumAssetIDs(albumID)
	if err != nil {
		return storagef(err, "listing album %d members", albumID)
	}
	result := db.Instance.Delete(&models.Album{}, albumID)
	if result.Error != nil {
		return storagef(result.Error, "deleting album %d", albumID)
	}
	if result.RowsAffected == 0 {
		return notFoundf("album %d not found", albumID)
	}
	db.Instance.Exec("delete from album_assets where album_id = ?", albumID)
	p.reclaimAll(assetIDs)
	return nil
}

// DeletePost removes the post and its inline-reference rows, then reclaims
// the now-unreferenced assets.
func (p *Pipeline) DeletePost(postID uint64) error {
	assetIDs, err := models.PostAssetIDs(postID)
	if err != nil {
		return storagef(err, "listing post %d references", postID)
	}
	result := db.Instance.Delete(&models.Post{}, postID)
	if result.Error != nil {
		return storagef(result.Error, "deleting post %d", postID)
	}
	if result.RowsAffected == 0 {
		return notFoundf("post %d not found", postID)
	}
	db.Instance.Exec("delete from post_assets where post_id = ?", postID)
	p.reclaimAll(assetIDs)
	return nil
}

func (p *Pipeline) reclaimAll(assetIDs []uint64) {
	for _, assetID := range assetIDs {
		if _, err := p.ReclaimIfUnreferenced(assetID); err != nil {
			// An asset left behind is an orphan the sweep will catch
			log.Printf("Reclaim: asset %d: %v", assetID, err)
		}
	}
}

// ReclaimIfUnreferenced deletes the asset row and its blobs when no ledger
// row references it anymore. The row goes first: a crash in between leaves
// orphaned blobs (safe, swept later), never a row pointing at nothing.
func (p *Pipeline) ReclaimIfUnreferenced(assetID uint64) (bool, error) {
	referenced, err := models.IsAssetReferenced(assetID)
	if err != nil {
		return false, storagef(err, "checking references of asset %d", assetID)
	}
	if referenced {
		return false, nil
	}
	asset, err := models.AssetByID(assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil // already gone
		}
		return false, storagef(err, "loading asset %d", assetID)
	}
	if err := db.Instance.Delete(&models.Asset{}, assetID).Error; err != nil {
		return false, storagef(err, "deleting asset %d", assetID)
	}
	if err := p.Blobs.DeleteMany(asset.AllKeys()); err != nil {
		log.Printf("Reclaim: deleting blobs of asset %d: %v", assetID, err)
	}
	return true, nil
}

// DeleteAsset removes an asset unconditionally: ledger rows, the row itself,
// then its blobs.
func (p *Pipeline) DeleteAsset(assetID uint64) error {
	asset, err := loadAsset(assetID)
	if err != nil {
		return err
	}
	db.Instance.Exec("delete from album_assets where asset_id = ?", assetID)
	db.Instance.Exec("delete from post_assets where asset_id = ?", assetID)
	if err := db.Instance.Delete(&models.Asset{}, assetID).Error; err != nil {
		return storagef(err, "deleting asset %d", assetID)
	}
	if err := p.Blobs.DeleteMany(asset.AllKeys()); err != nil {
		log.Printf("Asset %d: deleting blobs: %v", assetID, err)
	}
	return nil
}

// Reconcile lists every object under the upload prefix and deletes the ones
// no asset row references. Objects modified after the staleness cutoff are
// skipped - they may belong to an ingestion that has not finalized yet.
// Returns the number of objects removed. Safe to re-run at any time.
func (p *Pipeline) Reconcile() (int, error) {
	referenced, err := models.ReferencedKeySet()
	if err != nil {
		return 0, storagef(err, "collecting referenced keys")
	}
	cutoff := time.Now().Add(-time.Duration(config.CLEANUP_STALE_HOURS) * time.Hour)

	orphans := []string{}
	token := ""
	for {
		page, err := p.Blobs.List(config.UPLOAD_PREFIX, token)
		if err != nil {
			return 0, storagef(err, "listing objects under %s", config.UPLOAD_PREFIX)
		}
		for _, obj := range page.Objects {
			key := strings.TrimPrefix(strings.TrimSpace(obj.Key), "/")
			if referenced[key] {
				continue
			}
			if !obj.LastModified.IsZero() && obj.LastModified.After(cutoff) {
				continue
			}
			orphans = append(orphans, obj.Key)
		}
		token = page.NextToken
		if token == "" {
			break
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	if err := p.Blobs.DeleteMany(orphans); err != nil {
		return 0, storagef(err, "deleting %d orphan(s)", len(orphans))
	}
	return len(orphans), nil
}

// StartSweep runs Reconcile on a fixed interval. Meant to be launched as a
// goroutine from main.
func (p *Pipeline) StartSweep(interval time.Duration) {
	for {
		time.Sleep(interval)
		removed, err := p.Reconcile()
		if err != nil {
			log.Printf("Reclamation sweep: %v", err)
			continue
		}
		if removed > 0 {
			log.Printf("Reclamation sweep: removed %d orphan object(s)", removed)
		}
	}
}
