package repo

import "gorm.io/gorm"

// GormRepo is the single persistence adapter. The backing driver (postgres
// or sqlite) is chosen when the *gorm.DB is constructed; nothing in here
// depends on which one it is.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
