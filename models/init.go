package models

import "gallery/db"

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Asset{})
	db.Instance.AutoMigrate(&Album{})
	db.Instance.AutoMigrate(&AlbumAsset{})
	db.Instance.AutoMigrate(&Post{})
	db.Instance.AutoMigrate(&PostAsset{})
}
