package migration

import (
	"fmt"
	"time"

	"github.com/agencypack/blog-backend/internal/domain"
	pkglogger "github.com/agencypack/blog-backend/pkg/logger"
	"gorm.io/gorm"
)

// BackfillPublishPeriods recomputes the denormalized publish-month and
// publish-year columns for every post where they drifted from the
// publish timestamp. Repeatable: a consistent table is a no-op.
func BackfillPublishPeriods(db *gorm.DB) error {
	var posts []*domain.Post
	if err := db.Where("publish_date > 0").Find(&posts).Error; err != nil {
		return fmt.Errorf("load posts for period backfill: %w", err)
	}

	var updated int
	for _, post := range posts {
		published := time.Unix(post.PublishDate, 0)
		month := int(published.Month())
		year := published.Year()
		if post.PublishMonth == month && post.PublishYear == year {
			continue
		}

		err := db.Model(&domain.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"publish_month": month,
				"publish_year":  year,
			}).Error
		if err != nil {
			return fmt.Errorf("backfill post %d: %w", post.ID, err)
		}
		updated++
	}

	pkglogger.GetLogger().Info().
		Int("updated", updated).
		Msg("publish period backfill finished")
	return nil
}
