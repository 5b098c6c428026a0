package handlers

import (
	"net/http"
	"strings"
	"time"

	"gallery/auth"
	"gallery/db"
	"gallery/models"
	"gallery/utils"

	"github.com/gin-gonic/gin"
)

type PostInfo struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	Markdown    string   `json:"markdown"`
	Status      string   `json:"status"`
	PublishedAt *int64   `json:"published_at"`
	ImageIDs    []uint64 `json:"image_ids"`
	Created     int64    `json:"created"`
}

type PostSaveRequest struct {
	Title       string   `json:"title" binding:"required"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	Markdown    string   `json:"markdown" binding:"required"`
	Status      string   `json:"status"`
	PublishedAt *int64   `json:"published_at"`
	ImageIDs    []uint64 `json:"image_ids"`
}

func postInfoFrom(post *models.Post) PostInfo {
	ids, err := models.PostAssetIDs(post.ID)
	if err != nil {
		ids = []uint64{}
	}
	return PostInfo{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Summary:     post.Summary,
		Markdown:    post.Markdown,
		Status:      post.Status,
		PublishedAt: post.PublishedAt,
		ImageIDs:    ids,
		Created:     post.CreatedAt,
	}
}

func isPubliclyVisible(post *models.Post) bool {
	if post.Status != models.PostStatusPublished {
		return false
	}
	return post.PublishedAt == nil || *post.PublishedAt <= time.Now().Unix()
}

// PostList shows everything to logged-in callers and only published posts to
// the public.
func PostList(c *gin.Context) {
	session := auth.LoadSession(c)
	user := session.User()

	var posts []models.Post
	tx := db.Instance.Order("created_at DESC, id DESC")
	if user.ID == 0 {
		tx = tx.Where("status = ? AND (published_at IS NULL OR published_at <= ?)",
			models.PostStatusPublished, time.Now().Unix())
	} else if status := c.Query("status"); status != "" {
		tx = tx.Where("status = ?", models.NormalizePostStatus(status))
	}
	if err := tx.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	result := make([]PostInfo, 0, len(posts))
	for i := range posts {
		result = append(result, postInfoFrom(&posts[i]))
	}
	c.JSON(http.StatusOK, result)
}

func PostGet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := models.PostByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"post not found"})
		return
	}
	servePost(c, post)
}

func PostGetBySlug(c *gin.Context) {
	post, err := models.PostBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"post not found"})
		return
	}
	servePost(c, post)
}

func servePost(c *gin.Context, post *models.Post) {
	if !isPubliclyVisible(post) {
		session := auth.LoadSession(c)
		if session.User().ID == 0 {
			// Drafts don't exist for the public
			c.JSON(http.StatusNotFound, Response{"post not found"})
			return
		}
	}
	c.JSON(http.StatusOK, postInfoFrom(post))
}

func PostCreate(c *gin.Context, user *models.User) {
	r := PostSaveRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	slug := strings.TrimSpace(r.Slug)
	if slug == "" {
		slug = utils.Slugify(r.Title)
	}
	post := models.Post{
		Title:       strings.TrimSpace(r.Title),
		Slug:        slug,
		Summary:     strings.TrimSpace(r.Summary),
		Markdown:    r.Markdown,
		Status:      models.NormalizePostStatus(r.Status),
		PublishedAt: r.PublishedAt,
		CreatedByID: &user.ID,
	}
	if err := db.Instance.Create(&post).Error; err != nil {
		c.JSON(http.StatusConflict, Response{"post slug already in use"})
		return
	}
	if err := models.ReplacePostAssets(post.ID, r.ImageIDs); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusCreated, postInfoFrom(&post))
}

func PostUpdate(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r := PostSaveRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	post, err := models.PostByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"post not found"})
		return
	}
	post.Title = strings.TrimSpace(r.Title)
	if slug := strings.TrimSpace(r.Slug); slug != "" {
		post.Slug = slug
	}
	post.Summary = strings.TrimSpace(r.Summary)
	post.Markdown = r.Markdown
	post.Status = models.NormalizePostStatus(r.Status)
	post.PublishedAt = r.PublishedAt
	post.UpdatedAt = time.Now().Unix()
	if err := db.Instance.Save(post).Error; err != nil {
		c.JSON(http.StatusConflict, Response{"post slug already in use"})
		return
	}
	// Keep the inline-reference ledger in sync with the saved markdown
	if err := models.ReplacePostAssets(post.ID, r.ImageIDs); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, postInfoFrom(post))
}

// PostDelete removes the post; inline assets referenced nowhere else are
// reclaimed along with their blobs.
func PostDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pipe.DeletePost(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
