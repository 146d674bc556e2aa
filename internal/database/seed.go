package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

// SeedTags creates the given labels as seeded tags. Existing labels are left
// as they are.
func SeedTags(db *gorm.DB, labels []string) error {
	created := 0
	for _, label := range labels {
		tag := models.Tag{}
		res := db.Where(models.Tag{Label: label}).
			Attrs(models.Tag{Seeded: true}).
			FirstOrCreate(&tag)
		if res.Error != nil {
			return fmt.Errorf("seed tag %q: %w", label, res.Error)
		}
		if res.RowsAffected > 0 {
			created++
		}
	}
	if created > 0 {
		slog.Info("seeded tags", "created", created)
	}
	return nil
}
