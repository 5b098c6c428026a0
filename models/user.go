package models

import (
	"gallery/db"
	"gallery/utils"
)

const saltSize = 60

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Name      string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
	Admin     bool   `gorm:"not null;default:false"`
}

func UserCreate(name, email, plainTextPassword string) (u User, err error) {
	u.Email = email
	u.Name = name
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
	return u, db.Instance.Create(&u).Error
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return u.Password == utils.Sha512String(plainTextPassword+u.PassSalt)
}
