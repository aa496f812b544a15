package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// postgresSubscriptionRepo implements SubscriptionRepository for PostgreSQL.
type postgresSubscriptionRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresSubscriptionRepository creates the PostgreSQL-backed
// subscription repository.
func NewPostgresSubscriptionRepository(db *sqlx.DB, log *logger.Logger) SubscriptionRepository {
	return &postgresSubscriptionRepo{
		db:  db,
		log: log,
	}
}

// subscriptionRow is the scan target for joined subscription reads. Dates
// come back from the driver as time.Time and are reformatted into the
// calendar-date wire format during mapping.
type subscriptionRow struct {
	ID              int64          `db:"id"`
	UserID          uuid.UUID      `db:"user_id"`
	Name            string         `db:"name"`
	Price           float64        `db:"price"`
	Currency        string         `db:"currency"`
	BillingCycle    string         `db:"billing_cycle"`
	StartDate       time.Time      `db:"start_date"`
	NextBillingDate time.Time      `db:"next_billing_date"`
	Status          string         `db:"status"`
	CategoryID      sql.NullInt64  `db:"category_id"`
	LogoURL         sql.NullString `db:"logo_url"`
	WebsiteURL      sql.NullString `db:"website_url"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	CategoryName    sql.NullString `db:"category_name"`
	CategoryColor   sql.NullString `db:"category_color"`
	CategoryIcon    sql.NullString `db:"category_icon"`
}

const subscriptionSelect = `
    SELECT s.id, s.user_id, s.name, s.price, s.currency, s.billing_cycle,
           s.start_date, s.next_billing_date, s.status, s.category_id,
           s.logo_url, s.website_url, s.created_at, s.updated_at,
           c.name AS category_name, c.color AS category_color, c.icon AS category_icon
    FROM subscriptions s
    LEFT JOIN categories c ON c.id = s.category_id`

// toDomain maps a scanned row onto the domain type, validating it at the
// storage boundary so malformed rows fail fast instead of propagating.
func (row *subscriptionRow) toDomain() (*domain.Subscription, error) {
	sub := &domain.Subscription{
		ID:              row.ID,
		UserID:          row.UserID,
		Name:            row.Name,
		Price:           row.Price,
		Currency:        domain.Currency(row.Currency),
		BillingCycle:    domain.BillingCycle(row.BillingCycle),
		StartDate:       row.StartDate.Format(domain.DateLayout),
		NextBillingDate: row.NextBillingDate.Format(domain.DateLayout),
		Status:          domain.SubscriptionStatus(row.Status),
		LogoURL:         row.LogoURL.String,
		WebsiteURL:      row.WebsiteURL.String,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.CategoryID.Valid {
		sub.CategoryID = &row.CategoryID.Int64
		sub.Category = &domain.Category{
			ID:     row.CategoryID.Int64,
			UserID: row.UserID,
			Name:   row.CategoryName.String,
			Color:  row.CategoryColor.String,
			Icon:   row.CategoryIcon.String,
		}
	}

	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("%w: subscription row %d: %s", ErrInvalidData, row.ID, err)
	}
	return sub, nil
}

// Create persists a new subscription.
func (r *postgresSubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	query := `
        INSERT INTO subscriptions (
            user_id, name, price, currency, billing_cycle,
            start_date, next_billing_date, status, category_id,
            logo_url, website_url, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
        ) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		sub.UserID, sub.Name, sub.Price, sub.Currency, sub.BillingCycle,
		sub.StartDate, sub.NextBillingDate, sub.Status, sub.CategoryID,
		nullable(sub.LogoURL), nullable(sub.WebsiteURL), sub.CreatedAt, sub.UpdatedAt,
	).Scan(&sub.ID)
	if err != nil {
		r.log.Errorw("Failed to create subscription in DB", "error", err, "userID", sub.UserID)
		return fmt.Errorf("repository: failed to create subscription: %w", err)
	}

	r.log.Debugw("Successfully created subscription in DB", "subscriptionID", sub.ID, "userID", sub.UserID)
	return nil
}

// GetByID returns one subscription scoped to its owner.
func (r *postgresSubscriptionRepo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error) {
	var row subscriptionRow
	query := subscriptionSelect + ` WHERE s.user_id = $1 AND s.id = $2`

	err := r.db.GetContext(ctx, &row, query, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnw("Subscription not found by ID", "subscriptionID", id, "userID", userID)
			return nil, ErrNotFound
		}
		r.log.Errorw("Failed to get subscription by ID from DB", "error", err, "subscriptionID", id)
		return nil, fmt.Errorf("repository: failed to get subscription by ID: %w", err)
	}

	return row.toDomain()
}

// ListByUser returns all subscriptions owned by one user, newest first.
func (r *postgresSubscriptionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	var rows []subscriptionRow
	query := subscriptionSelect + ` WHERE s.user_id = $1 ORDER BY s.next_billing_date ASC, s.id ASC`

	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		r.log.Errorw("Failed to list subscriptions by user ID from DB", "error", err, "userID", userID)
		return nil, fmt.Errorf("repository: failed to list subscriptions by user ID: %w", err)
	}

	return r.mapRows(rows)
}

// ListByStatuses returns subscriptions across all users whose status is in
// the given set.
func (r *postgresSubscriptionRepo) ListByStatuses(ctx context.Context, statuses []domain.SubscriptionStatus) ([]domain.Subscription, error) {
	if len(statuses) == 0 {
		return []domain.Subscription{}, nil
	}

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	query, args, err := sqlx.In(subscriptionSelect+` WHERE s.status IN (?) ORDER BY s.user_id, s.id`, values)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to build status filter: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []subscriptionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.Errorw("Failed to list subscriptions by statuses from DB", "error", err, "statuses", values)
		return nil, fmt.Errorf("repository: failed to list subscriptions by statuses: %w", err)
	}

	return r.mapRows(rows)
}

// Update rewrites the mutable fields of an existing subscription.
func (r *postgresSubscriptionRepo) Update(ctx context.Context, sub *domain.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	sub.UpdatedAt = time.Now()

	query := `
        UPDATE subscriptions SET
            name = $1, price = $2, currency = $3, billing_cycle = $4,
            next_billing_date = $5, status = $6, category_id = $7,
            logo_url = $8, website_url = $9, updated_at = $10
        WHERE user_id = $11 AND id = $12`

	result, err := r.db.ExecContext(ctx, query,
		sub.Name, sub.Price, sub.Currency, sub.BillingCycle,
		sub.NextBillingDate, sub.Status, sub.CategoryID,
		nullable(sub.LogoURL), nullable(sub.WebsiteURL), sub.UpdatedAt,
		sub.UserID, sub.ID,
	)
	if err != nil {
		r.log.Errorw("Failed to update subscription in DB", "error", err, "subscriptionID", sub.ID)
		return fmt.Errorf("repository: failed to update subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorw("Failed to get rows affected after update", "error", err, "subscriptionID", sub.ID)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Debugw("Successfully updated subscription in DB", "subscriptionID", sub.ID)
	return nil
}

// UpdateNextBillingDate performs the mark-as-paid rollover write.
func (r *postgresSubscriptionRepo) UpdateNextBillingDate(ctx context.Context, userID uuid.UUID, id int64, nextDate string) error {
	query := `
        UPDATE subscriptions
        SET next_billing_date = $1, updated_at = $2
        WHERE user_id = $3 AND id = $4`

	result, err := r.db.ExecContext(ctx, query, nextDate, time.Now(), userID, id)
	if err != nil {
		r.log.Errorw("Failed to roll over billing date in DB", "error", err, "subscriptionID", id)
		return fmt.Errorf("repository: failed to roll over billing date: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Debugw("Rolled over billing date in DB", "subscriptionID", id, "nextDate", nextDate)
	return nil
}

// Delete removes a subscription owned by the user.
func (r *postgresSubscriptionRepo) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		r.log.Errorw("Failed to delete subscription from DB", "error", err, "subscriptionID", id)
		return fmt.Errorf("repository: failed to delete subscription: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Debugw("Deleted subscription from DB", "subscriptionID", id, "userID", userID)
	return nil
}

func (r *postgresSubscriptionRepo) mapRows(rows []subscriptionRow) ([]domain.Subscription, error) {
	subs := make([]domain.Subscription, 0, len(rows))
	for i := range rows {
		sub, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, nil
}

// nullable turns "" into NULL for optional text columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
