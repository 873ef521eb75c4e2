// Package seeds loads reference officers into the database.
package seeds

import (
	"context"
	"fmt"

	"github.com/civictrack/civictrack/internal/domain/department"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// SeedOfficers upserts officers by ID. Existing officers keep their current load.
func SeedOfficers(ctx context.Context, repo department.OfficerRepository, officers []*department.Officer, log logger.Interface) (int, error) {
	for _, o := range officers {
		if err := repo.Save(ctx, o); err != nil {
			log.Errorw("failed to seed officer", "officer_id", o.ID, "error", err)
			return 0, fmt.Errorf("failed to seed officer %s: %w", o.ID, err)
		}
	}

	log.Infow("officers seeded", "count", len(officers))
	return len(officers), nil
}
