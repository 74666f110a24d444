package database

import "lotboard/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Listing{},
		&models.Comment{},
		&models.CommentLike{},
		&models.BannedPattern{},
	}
}
