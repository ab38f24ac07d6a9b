package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
)

const findLocationQuery = `SELECT level, province_id, district_id, id, name_kh, name_en
FROM locations
WHERE level = $1 AND province_id = $2 AND district_id = $3 AND id = $4
LIMIT 1`

// LocationRepository reads the local gazetteer of province, district and
// commune names. Parent ids are stored as 0 for levels that lack them.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository constructs a LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Find returns the gazetteer entry or nil when none is stored.
func (r *LocationRepository) Find(ctx context.Context, level models.LocationLevel, provinceID, districtID, id int) (*models.GazetteerEntry, error) {
	var entry models.GazetteerEntry
	if err := r.db.GetContext(ctx, &entry, findLocationQuery, string(level), provinceID, districtID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s location %d: %w", level, id, err)
	}
	return &entry, nil
}
