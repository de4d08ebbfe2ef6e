package database

import "aperture/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Photo{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.CommentLike{},
		&models.Notification{},
	}
}
