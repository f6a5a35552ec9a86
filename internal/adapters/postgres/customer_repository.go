package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/models"
)

// CustomerRepository stores canonical customers. The provider customer id
// carries a unique constraint; bulk sync upserts against it.
type CustomerRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCustomerRepository creates a customer repository.
func NewCustomerRepository(db *DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{db: db, logger: logger}
}

const customerColumns = `
	square_customer_id, reference_id, family_name, given_name,
	email, phone, registration_date, status, course,
	car_model, color,
	plate_info_1, plate_info_2, plate_info_3, plate_info_4,
	store_name, store_code`

func customerArgs(c *models.Customer) []interface{} {
	return []interface{}{
		c.SquareCustomerID, c.ReferenceID, c.FamilyName, c.GivenName,
		c.Email, c.Phone, c.RegistrationDate, string(c.Status), c.Course,
		emptyToNil(c.CarModel), emptyToNil(c.Color),
		strOrNil(c.PlateInfo1), strOrNil(c.PlateInfo2), strOrNil(c.PlateInfo3), strOrNil(c.PlateInfo4),
		c.StoreName, c.StoreCode,
	}
}

// Insert stores a new customer row.
func (r *CustomerRepository) Insert(ctx context.Context, c *models.Customer) error {
	query := fmt.Sprintf(`
		INSERT INTO customers (%s)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id, created_at, updated_at`, customerColumns)

	err := r.db.Pool.QueryRow(ctx, query, customerArgs(c)...).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}

	r.logger.Debug("customer inserted",
		zap.Int64("id", c.ID),
		zap.String("square_customer_id", c.SquareCustomerID),
	)
	return nil
}

// UpdateBySquareID rewrites the row keyed by the provider customer id.
func (r *CustomerRepository) UpdateBySquareID(ctx context.Context, c *models.Customer) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE customers SET
			reference_id = $1, family_name = $2, given_name = $3,
			email = $4, phone = $5, registration_date = $6,
			status = $7, course = $8,
			car_model = $9, color = $10,
			store_name = $11, store_code = $12,
			updated_at = NOW()
		WHERE square_customer_id = $13`,
		c.ReferenceID, c.FamilyName, c.GivenName,
		c.Email, c.Phone, c.RegistrationDate,
		string(c.Status), c.Course,
		emptyToNil(c.CarModel), emptyToNil(c.Color),
		c.StoreName, c.StoreCode,
		c.SquareCustomerID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SoftDelete marks the row deleted without removing it.
func (r *CustomerRepository) SoftDelete(ctx context.Context, squareCustomerID string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE customers SET status = $1, updated_at = NOW()
		WHERE square_customer_id = $2`,
		string(models.CustomerStatusDeleted), squareCustomerID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// BulkUpsert inserts or updates a chunk of customers in one transaction,
// keyed by the provider customer id.
func (r *CustomerRepository) BulkUpsert(ctx context.Context, customers []models.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO customers (%s)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (square_customer_id) DO UPDATE SET
			reference_id = EXCLUDED.reference_id,
			family_name = EXCLUDED.family_name,
			given_name = EXCLUDED.given_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			registration_date = EXCLUDED.registration_date,
			status = EXCLUDED.status,
			course = EXCLUDED.course,
			car_model = EXCLUDED.car_model,
			color = EXCLUDED.color,
			store_name = EXCLUDED.store_name,
			store_code = EXCLUDED.store_code,
			updated_at = NOW()`, customerColumns)

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for i := range customers {
			if _, err := tx.Exec(ctx, query, customerArgs(&customers[i])...); err != nil {
				return fmt.Errorf("upsert customer %s: %w", customers[i].SquareCustomerID, err)
			}
		}
		return nil
	})
}

// List pages customers matching an optional search term across name, email,
// phone and reference id, newest first, and reports the total match count.
func (r *CustomerRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Customer, int64, error) {
	filter := `
		($1 = '' OR
		 family_name ILIKE '%' || $1 || '%' OR
		 given_name ILIKE '%' || $1 || '%' OR
		 email ILIKE '%' || $1 || '%' OR
		 phone ILIKE '%' || $1 || '%' OR
		 reference_id ILIKE '%' || $1 || '%')`

	var total int64
	if err := r.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM customers WHERE "+filter, search,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, %s, created_at, updated_at
		FROM customers
		WHERE %s
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`, customerColumns, filter)

	rows, err := r.db.Pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// GetByID fetches one customer by internal id.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at, updated_at
		FROM customers WHERE id = $1`, customerColumns)

	rows, err := r.db.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}

	c, err := scanCustomer(rows)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateByID rewrites the editable fields of the row keyed by internal id.
func (r *CustomerRepository) UpdateByID(ctx context.Context, c *models.Customer) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE customers SET
			family_name = $1, given_name = $2,
			email = $3, phone = $4, course = $5,
			car_model = $6, color = $7,
			plate_info_1 = $8, plate_info_2 = $9,
			plate_info_3 = $10, plate_info_4 = $11,
			store_name = $12, store_code = $13,
			updated_at = NOW()
		WHERE id = $14`,
		c.FamilyName, c.GivenName,
		c.Email, c.Phone, c.Course,
		emptyToNil(c.CarModel), emptyToNil(c.Color),
		strOrNil(c.PlateInfo1), strOrNil(c.PlateInfo2),
		strOrNil(c.PlateInfo3), strOrNil(c.PlateInfo4),
		c.StoreName, c.StoreCode,
		c.ID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanCustomer(rows pgx.Rows) (models.Customer, error) {
	var (
		c               models.Customer
		status          string
		carModel, color *string
	)

	err := rows.Scan(
		&c.ID,
		&c.SquareCustomerID, &c.ReferenceID, &c.FamilyName, &c.GivenName,
		&c.Email, &c.Phone, &c.RegistrationDate, &status, &c.Course,
		&carModel, &color,
		&c.PlateInfo1, &c.PlateInfo2, &c.PlateInfo3, &c.PlateInfo4,
		&c.StoreName, &c.StoreCode,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan customer: %w", err)
	}

	c.Status = models.CustomerStatus(status)
	if carModel != nil {
		c.CarModel = *carModel
	}
	if color != nil {
		c.Color = *color
	}
	return c, nil
}
