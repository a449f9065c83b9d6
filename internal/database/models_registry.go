package database

import "blogly/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Parents come before children so AutoMigrate can create foreign keys in order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.PostTag{},
	}
}
