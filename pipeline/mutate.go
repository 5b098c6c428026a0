package pipeline

import (
	"errors"
	"log"

	"gallery/config"
	"gallery/db"
	"gallery/models"
	"gallery/processing"
	"gallery/storage"

	"gorm.io/gorm"
)

// Rotate re-derives the asset's variants from its original bytes turned by
// 90, 180 or 270 degrees. The asset id is stable; all storage keys change.
func (p *Pipeline) Rotate(assetID uint64, degrees int) (*models.Asset, error) {
	if degrees != 90 && degrees != 180 && degrees != 270 {
		return nil, validationf("rotation must be 90, 180 or 270 degrees, got %d", degrees)
	}
	asset, err := loadAsset(assetID)
	if err != nil {
		return nil, err
	}
	original, err := p.Blobs.Get(asset.OriginalKey())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundf("asset %d: original object %s is missing", assetID, asset.OriginalKey())
		}
		return nil, storagef(err, "asset %d: fetching original", assetID)
	}
	rotated, err := processing.Rotate(original, degrees)
	if err != nil {
		return nil, validationf("asset %d: %v", assetID, err)
	}
	// Rotation re-encodes as JPEG, so the new original key is .jpg no matter
	// what the source format was
	return p.swapVariants(asset, rotated, ".jpg")
}

// Replace swaps the asset's image for a caller-supplied one, keeping the
// asset id and all ownership ledger rows.
func (p *Pipeline) Replace(assetID uint64, file *File) (*models.Asset, error) {
	if err := validateFile(file); err != nil {
		return nil, err
	}
	asset, err := loadAsset(assetID)
	if err != nil {
		return nil, err
	}
	return p.swapVariants(asset, file.Data, keyExt(file.Name))
}

// swapVariants is the shared write-new -> swap-pointer -> delete-old shape of
// rotate and replace. A crash at any point leaves the asset pointing at
// complete blobs; at worst an orphaned set remains for the sweep.
func (p *Pipeline) swapVariants(asset *models.Asset, data []byte, ext string) (*models.Asset, error) {
	variants, err := processing.Process(data, config.LARGE_IMAGE_MAX_MP)
	if err != nil {
		return nil, validationf("asset %d: %v", asset.ID, err)
	}

	oldKeys := asset.AllKeys()
	keys := mutationKeys(asset.ID, ext)

	uploaded := []string{}
	uploadErr := func() error {
		if err := p.Blobs.Put(keys.Thumb, variants.Thumb.Data, "image/jpeg"); err != nil {
			return err
		}
		uploaded = append(uploaded, keys.Thumb)
		if err := p.Blobs.Put(keys.Large, variants.Large.Data, "image/jpeg"); err != nil {
			return err
		}
		uploaded = append(uploaded, keys.Large)
		if err := p.Blobs.Put(keys.Original, variants.Original.Data, variants.Original.ContentType); err != nil {
			return err
		}
		uploaded = append(uploaded, keys.Original)
		return nil
	}()
	if uploadErr != nil {
		// The asset still points at its old, intact keys - only the unused
		// new ones need removing
		if err := p.Blobs.DeleteMany(uploaded); err != nil {
			log.Printf("Mutation rollback: deleting %d new blob(s) for asset %d: %v", len(uploaded), asset.ID, err)
		}
		return nil, storagef(uploadErr, "asset %d: uploading new variants", asset.ID)
	}

	updates := map[string]interface{}{
		"key_primary":  keys.Large,
		"key_thumb":    keys.Thumb,
		"key_large":    keys.Large,
		"key_original": keys.Original,
		"width":        variants.Large.Width,
		"height":       variants.Large.Height,
	}
	if err := db.Instance.Model(asset).Updates(updates).Error; err != nil {
		if delErr := p.Blobs.DeleteMany(keys.all()); delErr != nil {
			log.Printf("Mutation rollback: deleting new blobs for asset %d: %v", asset.ID, delErr)
		}
		if isDuplicateKey(err) {
			return nil, conflictf(err, "asset %d: storage key collision", asset.ID)
		}
		return nil, storagef(err, "asset %d: updating record", asset.ID)
	}
	asset.KeyPrimary = keys.Large
	asset.KeyThumb = keys.Thumb
	asset.KeyLarge = keys.Large
	asset.KeyOriginal = keys.Original
	asset.Width = &variants.Large.Width
	asset.Height = &variants.Large.Height

	// Old keys go only after the pointer swap committed. Failures here leave
	// orphans, never dangling references.
	if err := p.Blobs.DeleteMany(oldKeys); err != nil {
		log.Printf("Asset %d: deleting %d old blob(s): %v", asset.ID, len(oldKeys), err)
	}
	return asset, nil
}

func loadAsset(assetID uint64) (*models.Asset, error) {
	asset, err := models.AssetByID(assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("asset %d not found", assetID)
		}
		return nil, storagef(err, "loading asset %d", assetID)
	}
	return asset, nil
}
