package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/database"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/geo"
	"github.com/jackc/pgx/v5"
)

type siteRepository struct {
	db *database.DB
}

// GetByID implements timeclock.SiteRepository.
func (r *siteRepository) GetByID(ctx context.Context, id, tenantID string) (geo.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, radius_meters
		FROM sites
		WHERE id = $1
		  AND tenant_id = $2
	`

	var site geo.Site
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&site.ID, &site.Name, &site.Latitude, &site.Longitude, &site.RadiusMeters,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return geo.Site{}, timeclock.ErrSiteNotFound
		}
		return geo.Site{}, fmt.Errorf("failed to get site: %w", err)
	}

	return site, nil
}

func NewSiteRepository(db *database.DB) timeclock.SiteRepository {
	return &siteRepository{db: db}
}
