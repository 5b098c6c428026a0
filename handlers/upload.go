package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"gallery/config"
	"gallery/models"
	"gallery/pipeline"
	"gallery/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PresignRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size"`
}

type PresignResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

type RegisterRequest struct {
	Key     string `json:"key" binding:"required"`
	Width   *int   `json:"width"`
	Height  *int   `json:"height"`
	Name    string `json:"name"`
	Caption string `json:"caption"`
	AltText string `json:"alt_text"`
}

// AssetUpload ingests one or more image files from a multipart form. Files
// are processed one at a time; a failure aborts the batch but files already
// finalized stay finalized.
func AssetUpload(c *gin.Context, user *models.User) {
	// Fast reject before buffering the body; ~10% overhead allowance for
	// multipart framing
	if c.Request.ContentLength > config.MAX_UPLOAD_BYTES+config.MAX_UPLOAD_BYTES/10 {
		maxMB := config.MAX_UPLOAD_BYTES / (1024 * 1024)
		c.JSON(http.StatusRequestEntityTooLarge, Response{"request size exceeds " + strconv.FormatInt(maxMB, 10) + "MB limit"})
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, Response{"at least one file is required"})
		return
	}

	var albumID *uint64
	if raw := c.PostForm("album_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, Response{"invalid album_id"})
			return
		}
		albumID = &id
	}
	caption := strings.TrimSpace(c.PostForm("caption"))
	altText := strings.TrimSpace(c.PostForm("alt_text"))

	files := make([]pipeline.File, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		reader, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{"cannot read file " + fh.Filename})
			return
		}
		data, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{"cannot read file " + fh.Filename})
			return
		}
		files = append(files, pipeline.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	finalized, err := pipe.IngestBatch(user, files, albumID, caption, altText)
	if err != nil {
		log.Printf("Upload by user %d: %v", user.ID, err)
		// Report the failing file but keep what was already finalized
		c.JSON(errorStatus(err), gin.H{
			"error":  err.Error(),
			"images": assetInfosFrom(finalized),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"images": assetInfosFrom(finalized)})
}

// AssetPresign issues a time-limited URL for a browser-direct upload. The
// client PUTs the object itself and then registers it via AssetRegister.
func AssetPresign(c *gin.Context, user *models.User) {
	r := PresignRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.Size > config.MAX_UPLOAD_BYTES {
		c.JSON(http.StatusBadRequest, Response{"file exceeds max size"})
		return
	}
	ext := strings.ToLower(filepath.Ext(r.FileName))
	key := config.UPLOAD_PREFIX + uuid.NewString() + ext
	url, err := pipe.Blobs.PresignPut(key, r.ContentType, r.Size)
	if errors.Is(err, storage.ErrPresignUnsupported) {
		c.JSON(http.StatusBadRequest, Response{"direct uploads are not supported by this store"})
		return
	}
	if err != nil {
		log.Printf("Presign for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, Response{"failed to presign upload"})
		return
	}
	c.JSON(http.StatusOK, PresignResponse{UploadURL: url, Key: key})
}

// AssetRegister records a completed direct upload as a finalized single-key
// asset row. No variants exist for such rows; key_primary serves all three.
func AssetRegister(c *gin.Context, user *models.User) {
	r := RegisterRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	key := strings.TrimPrefix(strings.TrimSpace(r.Key), "/")
	if !strings.HasPrefix(key, config.UPLOAD_PREFIX) {
		c.JSON(http.StatusBadRequest, Response{"key must be under " + config.UPLOAD_PREFIX})
		return
	}
	asset, err := pipe.RegisterDirect(user, key, r.Width, r.Height, r.Name, r.Caption, r.AltText)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assetInfoFrom(asset))
}
