package pipeline

import (
	"log"

	"gallery/config"
	"gallery/db"
	"gallery/models"
	"gallery/processing"
)

// IngestBatch runs each file through the full ingestion pipeline, one at a
// time. Each file is independent: a failure aborts the batch but leaves the
// files finalized before it untouched. The returned slice holds everything
// that was finalized, alongside the error of the file that stopped the batch
// (nil when all files made it).
func (p *Pipeline) IngestBatch(user *models.User, files []File, albumID *uint64, caption, altText string) ([]models.Asset, error) {
	finalized := make([]models.Asset, 0, len(files))
	for i := range files {
		asset, err := p.ingestOne(user, &files[i], caption, altText)
		if err != nil {
			return finalized, err
		}
		if albumID != nil && *albumID > 0 {
			if err = models.AppendToAlbum(*albumID, asset.ID); err != nil {
				// The asset itself is finalized and visible; only the album
				// membership failed.
				return append(finalized, *asset), storagef(err, "file %s: adding to album %d", files[i].Name, *albumID)
			}
		}
		finalized = append(finalized, *asset)
	}
	return finalized, nil
}

// ingestOne walks a single file through
// Validating -> Processing -> RecordCreated -> BlobsUploaded -> Finalized.
// Any failure past RecordCreated rolls back what this file created; nothing
// else is touched.
func (p *Pipeline) ingestOne(user *models.User, file *File, caption, altText string) (*models.Asset, error) {
	// Validating
	if err := validateFile(file); err != nil {
		return nil, err
	}

	// Processing - pure, nothing to undo on failure
	variants, err := processing.Process(file.Data, config.LARGE_IMAGE_MAX_MP)
	if err != nil {
		return nil, validationf("file %s: %v", file.Name, err)
	}

	// RecordCreated - a provisional row under a placeholder key secures the
	// asset id that the final keys are derived from
	asset := models.Asset{
		KeyPrimary: placeholderKey(),
		Width:      &variants.Large.Width,
		Height:     &variants.Large.Height,
		Name:       file.Name,
		Caption:    caption,
		AltText:    altText,
	}
	if user != nil && user.ID > 0 {
		asset.CreatedByID = &user.ID
	}
	if err := db.Instance.Create(&asset).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, conflictf(err, "file %s: storage key collision", file.Name)
		}
		return nil, storagef(err, "file %s: creating asset record", file.Name)
	}

	// BlobsUploaded
	keys := ingestKeys(asset.ID, keyExt(file.Name))
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
		p.rollbackIngest(uploaded, asset.ID)
		return nil, storagef(uploadErr, "file %s: uploading variants", file.Name)
	}

	// Finalized - swap the placeholder for the real keys; only now does the
	// asset become visible and linkable
	updates := map[string]interface{}{
		"key_primary":  keys.Large,
		"key_thumb":    keys.Thumb,
		"key_large":    keys.Large,
		"key_original": keys.Original,
	}
	if err := db.Instance.Model(&asset).Updates(updates).Error; err != nil {
		p.rollbackIngest(uploaded, asset.ID)
		return nil, storagef(err, "file %s: finalizing asset record", file.Name)
	}
	asset.KeyPrimary = keys.Large
	asset.KeyThumb = keys.Thumb
	asset.KeyLarge = keys.Large
	asset.KeyOriginal = keys.Original
	return &asset, nil
}

// RegisterDirect records an object already uploaded through a presigned URL
// as a finalized single-key asset row. Such rows carry no variant keys;
// key_primary serves thumb, large and original until a later replace derives
// real variants.
func (p *Pipeline) RegisterDirect(user *models.User, key string, width, height *int, name, caption, altText string) (*models.Asset, error) {
	asset := models.Asset{
		KeyPrimary: key,
		Width:      width,
		Height:     height,
		Name:       name,
		Caption:    caption,
		AltText:    altText,
	}
	if user != nil && user.ID > 0 {
		asset.CreatedByID = &user.ID
	}
	if err := db.Instance.Create(&asset).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, conflictf(err, "storage key %s is already registered", key)
		}
		return nil, storagef(err, "registering direct upload %s", key)
	}
	return &asset, nil
}

// rollbackIngest undoes a single file's partial ingestion: every variant key
// uploaded so far, then the provisional row. Best effort - anything it fails
// to remove is an orphan for the reclamation sweep.
func (p *Pipeline) rollbackIngest(uploadedKeys []string, assetID uint64) {
	if len(uploadedKeys) > 0 {
		if err := p.Blobs.DeleteMany(uploadedKeys); err != nil {
			log.Printf("Ingest rollback: deleting %d blob(s) for asset %d: %v", len(uploadedKeys), assetID, err)
		}
	}
	if err := db.Instance.Delete(&models.Asset{}, assetID).Error; err != nil {
		log.Printf("Ingest rollback: deleting provisional asset %d: %v", assetID, err)
	}
}
