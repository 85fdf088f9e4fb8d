package models

import "gorm.io/gorm"

// Handler is embedded by every entity handler package and carries the
// injected storage handle.
type Handler struct {
	DB *gorm.DB
}
