package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init(mysqlDSN, sqliteFile string) {
	var (
		db  *gorm.DB
		err error
	)
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if mysqlDSN != "" {
		db, err = gorm.Open(mysql.Open(mysqlDSN), cfg)
	} else {
		db, err = gorm.Open(sqlite.Open(sqliteFile), cfg)
	}
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}
