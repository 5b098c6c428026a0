package handlers

import (
	"net/http"

	"gallery/auth"
	"gallery/db"
	"gallery/models"

	"github.com/gin-gonic/gin"
)

type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserStatusResponse struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func UserLogin(c *gin.Context) {
	r := UserLoginRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user := models.User{}
	if db.Instance.Where("email = ?", r.Email).First(&user).Error != nil || !user.CheckPassword(r.Password) {
		c.JSON(http.StatusUnauthorized, Response{"invalid credentials"})
		return
	}
	session := auth.LoadSession(c)
	if err := session.LoginUser(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, Response{"session error"})
		return
	}
	c.JSON(http.StatusOK, UserStatusResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

// UserStatus reports the caller's identity; anonymous callers get id 0.
func UserStatus(c *gin.Context) {
	user := auth.LoadSession(c).User()
	c.JSON(http.StatusOK, UserStatusResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}
