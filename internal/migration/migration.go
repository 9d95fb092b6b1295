package migration

import (
	"fmt"

	"github.com/agencypack/blog-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates or updates the blog schema
func Run(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Post{},
		&domain.Category{},
		&domain.Tag{},
		&domain.Author{},
		&domain.Comment{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate blog schema: %w", err)
	}
	return nil
}
