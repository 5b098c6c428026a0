package handlers

import (
	"io"
	"net/http"
	"strings"

	"gallery/db"
	"gallery/models"
	"gallery/pipeline"

	"github.com/gin-gonic/gin"
)

type AssetRotateRequest struct {
	Rotate int `json:"rotate" binding:"required"`
}

type AssetBatchRequest struct {
	IDs []uint64 `json:"ids" binding:"required"`
}

type AssetUpdateRequest struct {
	Name        string `json:"name"`
	Caption     string `json:"caption"`
	AltText     string `json:"alt_text"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

func AssetList(c *gin.Context, user *models.User) {
	var assets []models.Asset
	if err := db.Instance.Order("created_at DESC, id DESC").Find(&assets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, assetInfosFrom(assets))
}

// AssetGet is a public read. Internal failures degrade to not-found rather
// than exposing storage errors.
func AssetGet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	asset, err := models.AssetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"asset not found"})
		return
	}
	c.JSON(http.StatusOK, assetInfoFrom(asset))
}

// AssetBatch loads asset details for a list of ids, preserving the order.
// Used to render ordered album and post views.
func AssetBatch(c *gin.Context) {
	r := AssetBatchRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	assets, err := models.AssetsByIDs(r.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, assetInfosFrom(assets))
}

func AssetUpdate(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r := AssetUpdateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	asset, err := models.AssetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"asset not found"})
		return
	}
	asset.Name = strings.TrimSpace(r.Name)
	asset.Caption = strings.TrimSpace(r.Caption)
	asset.AltText = strings.TrimSpace(r.AltText)
	asset.Description = strings.TrimSpace(r.Description)
	asset.Tags = strings.TrimSpace(r.Tags)
	if err := db.Instance.Save(asset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, assetInfoFrom(asset))
}

func AssetRotate(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r := AssetRotateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{"rotate must be 90, 180, or 270"})
		return
	}
	asset, err := pipe.Rotate(id, r.Rotate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, assetInfoFrom(asset))
}

func AssetReplace(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"file is required"})
		return
	}
	reader, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"cannot read file"})
		return
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"cannot read file"})
		return
	}
	asset, err := pipe.Replace(id, &pipeline.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, assetInfoFrom(asset))
}

func AssetDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pipe.DeleteAsset(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// Reconcile runs the orphan sweep on demand.
func Reconcile(c *gin.Context, user *models.User) {
	removed, err := pipe.Reconcile()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
