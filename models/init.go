package models

import (
	"poster/db"
)

func Init() {
	if err := db.Instance.AutoMigrate(&Photo{}); err != nil {
		panic(err)
	}
}
