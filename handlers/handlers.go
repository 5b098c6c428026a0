package handlers

import (
	"net/http"
	"strconv"

	"gallery/models"
	"gallery/pipeline"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

var (
	OKResponse      = Response{}
	DBErrorResponse = Response{"DB error"}
)

// pipe is the shared lifecycle pipeline, set once at startup
var pipe *pipeline.Pipeline

func Init(p *pipeline.Pipeline) {
	pipe = p
}

type AssetInfo struct {
	ID          uint64 `json:"id"`
	KeyPrimary  string `json:"key"`
	KeyThumb    string `json:"key_thumb"`
	KeyLarge    string `json:"key_large"`
	KeyOriginal string `json:"key_original"`
	Width       *int   `json:"width"`
	Height      *int   `json:"height"`
	Name        string `json:"name"`
	Caption     string `json:"caption"`
	AltText     string `json:"alt_text"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Created     int64  `json:"created"`
}

func assetInfoFrom(a *models.Asset) AssetInfo {
	return AssetInfo{
		ID:          a.ID,
		KeyPrimary:  a.KeyPrimary,
		KeyThumb:    a.ThumbKey(),
		KeyLarge:    a.LargeKey(),
		KeyOriginal: a.OriginalKey(),
		Width:       a.Width,
		Height:      a.Height,
		Name:        a.Name,
		Caption:     a.Caption,
		AltText:     a.AltText,
		Description: a.Description,
		Tags:        a.Tags,
		Created:     a.CreatedAt,
	}
}

func assetInfosFrom(assets []models.Asset) []AssetInfo {
	result := make([]AssetInfo, 0, len(assets))
	for i := range assets {
		result = append(result, assetInfoFrom(&assets[i]))
	}
	return result
}

func errorStatus(err error) int {
	switch pipeline.KindOf(err) {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindNotFound:
		return http.StatusNotFound
	case pipeline.KindConflict:
		return http.StatusConflict
	case pipeline.KindPermission:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), Response{err.Error()})
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, Response{"invalid " + name})
		return 0, false
	}
	return id, true
}
