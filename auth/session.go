package auth

import (
	"gallery/db"
	"gallery/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIdKey = "id"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(id uint64) error {
	s.Set(userIdKey, id)
	return s.Save()
}

func (s *Session) LogoutUser() {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	s.Save()
}

// User returns the logged-in user, or one with ID 0 for anonymous callers.
func (s *Session) User() (user models.User) {
	id := s.Get(userIdKey)
	if id == nil {
		return
	}
	user.ID = id.(uint64)
	if db.Instance.First(&user).Error != nil {
		user.ID = 0
	}
	return
}
