package handlers

import (
	"net/http"
	"strings"
	"time"

	"gallery/db"
	"gallery/models"
	"gallery/utils"

	"github.com/gin-gonic/gin"
)

type AlbumInfo struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	CoverKey    string `json:"cover_key"`
	Created     int64  `json:"created"`
}

type AlbumSaveRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type AlbumAssetRequest struct {
	AssetID uint64 `json:"asset_id" binding:"required"`
}

type AlbumReorderRequest struct {
	AssetIDs []uint64 `json:"asset_ids" binding:"required"`
}

func albumInfoFrom(album *models.Album) AlbumInfo {
	info := AlbumInfo{
		ID:          album.ID,
		Title:       album.Title,
		Slug:        album.Slug,
		Description: album.Description,
		Created:     album.CreatedAt,
	}
	// Cover is the first image in display order
	ids, err := models.AlbumAssetIDs(album.ID)
	if err == nil && len(ids) > 0 {
		if asset, err := models.AssetByID(ids[0]); err == nil {
			info.CoverKey = asset.ThumbKey()
		}
	}
	return info
}

func AlbumList(c *gin.Context) {
	var albums []models.Album
	if err := db.Instance.Order("created_at DESC, id DESC").Find(&albums).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	result := make([]AlbumInfo, 0, len(albums))
	for i := range albums {
		result = append(result, albumInfoFrom(&albums[i]))
	}
	c.JSON(http.StatusOK, result)
}

func AlbumGet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	album, err := models.AlbumByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"album not found"})
		return
	}
	c.JSON(http.StatusOK, albumInfoFrom(album))
}

func AlbumGetBySlug(c *gin.Context) {
	album, err := models.AlbumBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"album not found"})
		return
	}
	c.JSON(http.StatusOK, albumInfoFrom(album))
}

// AlbumImages lists the album's assets in display order. Read-only consumers
// (markdown shortcodes and album pages) resolve albums through this and
// AlbumGetBySlug; they never write.
func AlbumImages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := models.AlbumByID(id); err != nil {
		c.JSON(http.StatusNotFound, Response{"album not found"})
		return
	}
	ids, err := models.AlbumAssetIDs(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	assets, err := models.AssetsByIDs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, assetInfosFrom(assets))
}

func AlbumCreate(c *gin.Context, user *models.User) {
	r := AlbumSaveRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	slug := strings.TrimSpace(r.Slug)
	if slug == "" {
		slug = utils.Slugify(r.Title)
	}
	album := models.Album{
		Title:       strings.TrimSpace(r.Title),
		Slug:        slug,
		Description: strings.TrimSpace(r.Description),
		CreatedByID: &user.ID,
	}
	if err := db.Instance.Create(&album).Error; err != nil {
		c.JSON(http.StatusConflict, Response{"album slug already in use"})
		return
	}
	c.JSON(http.StatusCreated, albumInfoFrom(&album))
}

func AlbumUpdate(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r := AlbumSaveRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album, err := models.AlbumByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"album not found"})
		return
	}
	album.Title = strings.TrimSpace(r.Title)
	if slug := strings.TrimSpace(r.Slug); slug != "" {
		album.Slug = slug
	}
	album.Description = strings.TrimSpace(r.Description)
	album.UpdatedAt = time.Now().Unix()
	if err := db.Instance.Save(album).Error; err != nil {
		c.JSON(http.StatusConflict, Response{"album slug already in use"})
		return
	}
	c.JSON(http.StatusOK, albumInfoFrom(album))
}

// AlbumDelete removes the album; member assets referenced nowhere else are
// reclaimed along with their blobs.
func AlbumDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pipe.DeleteAlbum(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func AlbumAddAsset(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r := AlbumAssetRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if _, err := models.AlbumByID(id); err != nil {
		c.JSON(http.StatusNotFound, Response{"album not found"})
		return
	}
	if _, err := models.AssetByID(r.AssetID); err != nil {
		c.JSON(http.StatusNotFound, Response{"asset not found"})
		return
	}
	if err := models.AppendToAlbum(id, r.AssetID); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// AlbumRemoveAsset only curates the album - the asset itself stays, even if
// this was its last reference. Only owner deletion cascades into reclamation.
func AlbumRemoveAsset(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	assetID, ok := paramID(c, "assetID")
	if !ok {
		return
	}
	if err := models.RemoveFromAlbum(id, assetID); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func AlbumReorder(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r := AlbumReorderRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := models.ReorderAlbum(id, r.AssetIDs); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
