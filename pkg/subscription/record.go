package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type RecordStatus string

const (
	RecordActive   RecordStatus = "active"
	RecordCanceled RecordStatus = "canceled"
	RecordPastDue  RecordStatus = "past_due"
)

// Record is the billing state reported by the payment provider.
type Record struct {
	UserId                 int
	ProviderSubscriptionId string
	Status                 RecordStatus
	CurrentPeriodEnd       *time.Time
	UpdatedAt              time.Time
}

var ErrRecordNotFound = errors.New("subscription record not found")

type Repository interface {
	Upsert(ctx context.Context, record Record) (Record, error)
	Get(ctx context.Context, userId int) (Record, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Upsert(ctx context.Context, record Record) (Record, error) {
	query := `INSERT INTO subscriptions (user_id, provider_subscription_id, status, current_period_end)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id) DO UPDATE SET provider_subscription_id = EXCLUDED.provider_subscription_id,
				status = EXCLUDED.status, current_period_end = EXCLUDED.current_period_end, updated_at = now()
			  RETURNING updated_at`
	err := r.db.QueryRow(ctx, query, record.UserId, record.ProviderSubscriptionId, record.Status,
		record.CurrentPeriodEnd).Scan(&record.UpdatedAt)
	if err != nil {
		err := fmt.Errorf("could not store subscription record: %w", err)
		log.Error(err)
		return Record{}, err
	}
	return record, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int) (Record, error) {
	query := `SELECT user_id, provider_subscription_id, status, current_period_end, updated_at
			  FROM subscriptions WHERE user_id = $1`
	var record Record
	err := r.db.QueryRow(ctx, query, userId).Scan(&record.UserId, &record.ProviderSubscriptionId, &record.Status,
		&record.CurrentPeriodEnd, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not read subscription record: %w", err)
		log.Error(err)
		return Record{}, err
	}
	return record, nil
}
