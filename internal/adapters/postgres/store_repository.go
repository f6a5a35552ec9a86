package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/models"
)

// StoreRepository reads the pre-seeded store directory.
type StoreRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStoreRepository creates a store repository.
func NewStoreRepository(db *DB, logger *zap.Logger) *StoreRepository {
	return &StoreRepository{db: db, logger: logger}
}

// ListAll returns every store ordered by id. Passwords are not selected.
func (r *StoreRepository) ListAll(ctx context.Context) ([]models.Store, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, location, phone, zip_code, address, mail, created_at
		FROM stores ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Store
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.Phone,
			&s.ZipCode, &s.Address, &s.Mail, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByCredentials fetches the store matching a mail/password pair.
func (r *StoreRepository) GetByCredentials(ctx context.Context, mail, password string) (*models.Store, error) {
	var s models.Store
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, location, phone, zip_code, address, mail, created_at
		FROM stores WHERE mail = $1 AND password = $2`,
		mail, password,
	).Scan(&s.ID, &s.Name, &s.Location, &s.Phone,
		&s.ZipCode, &s.Address, &s.Mail, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return &s, nil
}
