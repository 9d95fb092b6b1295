package migration

import (
	"fmt"

	"github.com/agencypack/blog-backend/internal/domain"
	pkglogger "github.com/agencypack/blog-backend/pkg/logger"
	"gorm.io/gorm"
)

// FeaturedImageUpdateNecessary reports whether any post still carries a
// legacy media reference instead of a featured image
func FeaturedImageUpdateNecessary(db *gorm.DB) (bool, error) {
	var count int64
	err := db.Model(&domain.Post{}).
		Where("featured_image = '' AND legacy_media <> ''").
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count legacy media posts: %w", err)
	}
	return count > 0, nil
}

// FeaturedImageUpdate moves legacy media references into the featured
// image field. Repeatable: posts already carrying a featured image are
// left untouched.
func FeaturedImageUpdate(db *gorm.DB) error {
	necessary, err := FeaturedImageUpdateNecessary(db)
	if err != nil {
		return err
	}
	if !necessary {
		return nil
	}

	result := db.Model(&domain.Post{}).
		Where("featured_image = '' AND legacy_media <> ''").
		Updates(map[string]interface{}{
			"featured_image": gorm.Expr("legacy_media"),
			"legacy_media":   "",
		})
	if result.Error != nil {
		return fmt.Errorf("featured image update: %w", result.Error)
	}

	pkglogger.GetLogger().Info().
		Int64("updated", result.RowsAffected).
		Msg("featured image update finished")
	return nil
}
