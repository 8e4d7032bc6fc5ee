package core

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type FeatureUsage struct {
	UserID     string     `db:"user_id"`
	Feature    Feature    `db:"feature"`
	UsedCount  int        `db:"used_count"`
	LastUsedAt *time.Time `db:"last_used_at"`
}

type FeatureUsageStorer interface {
	UsedCount(userID string, feature Feature) (int, error)
	Increment(userID string, feature Feature) error
}

type FeatureUsageRepository struct {
	db *sqlx.DB
}

func NewFeatureUsageRepository(db *sqlx.DB) FeatureUsageStorer {
	return &FeatureUsageRepository{
		db: db,
	}
}

func (r *FeatureUsageRepository) UsedCount(userID string, feature Feature) (int, error) {
	var count int

	err := r.db.Get(&count,
		`SELECT used_count FROM feature_usages WHERE user_id = $1 AND feature = $2 LIMIT 1`,
		userID,
		string(feature),
	)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *FeatureUsageRepository) Increment(userID string, feature Feature) error {
	_, err := r.db.Exec(
		`INSERT INTO feature_usages (user_id, feature, used_count, last_used_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_id, feature) DO UPDATE
			SET used_count = feature_usages.used_count + 1, last_used_at = NOW()`,
		userID,
		string(feature),
	)

	return err
}
