package models

import (
	"log"

	"bitbucket.org/khsdfiscal/icecube_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&ReconPers{}, &ReconStrs{},
		&PayStaging{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
