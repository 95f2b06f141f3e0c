package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrRecurringNotFound = errors.New("recurring transaction not found")

var references = map[string]string{
	"recurring_transactions_category_fk": "categoryId",
	"recurring_transactions_card_fk":     "cardId",
}

type Repository interface {
	List(ctx context.Context, userId int) ([]RecurringTransaction, error)
	Create(ctx context.Context, userId int, recurring RecurringTransaction) (RecurringTransaction, error)
	Update(ctx context.Context, userId int, recurring RecurringTransaction) (RecurringTransaction, error)
	Delete(ctx context.Context, userId int, id string) error
	// ListDue returns active definitions of all users whose next execution is
	// on or before day and not past their end date.
	ListDue(ctx context.Context, day time.Time) ([]RecurringTransaction, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectColumns = `SELECT id, user_id, description, amount, type, category_id, card_id, frequency, start_date,
	end_date, next_execution_date, is_active, created_at, updated_at FROM recurring_transactions`

func (r *RepositoryImpl) List(ctx context.Context, userId int) ([]RecurringTransaction, error) {
	return r.query(ctx, selectColumns+` WHERE user_id = $1 ORDER BY next_execution_date, description`, userId)
}

func (r *RepositoryImpl) ListDue(ctx context.Context, day time.Time) ([]RecurringTransaction, error) {
	return r.query(ctx, selectColumns+` WHERE is_active AND next_execution_date <= $1
		AND (end_date IS NULL OR next_execution_date <= end_date) ORDER BY user_id, next_execution_date`, day)
}

func (r *RepositoryImpl) query(ctx context.Context, query string, args ...any) ([]RecurringTransaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query recurring transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	result := make([]RecurringTransaction, 0)
	for rows.Next() {
		var rt RecurringTransaction
		if err := rows.Scan(&rt.Id, &rt.UserId, &rt.Description, &rt.Amount, &rt.Type, &rt.CategoryId, &rt.CardId,
			&rt.Frequency, &rt.StartDate, &rt.EndDate, &rt.NextExecutionDate, &rt.IsActive, &rt.CreatedAt,
			&rt.UpdatedAt); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		result = append(result, rt)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return result, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, userId int, recurring RecurringTransaction) (RecurringTransaction, error) {
	if recurring.Id == "" {
		recurring.Id = uuid.NewString()
	}
	recurring.UserId = userId
	if recurring.NextExecutionDate.IsZero() {
		recurring.NextExecutionDate = recurring.StartDate
	}

	query := `INSERT INTO recurring_transactions (id, user_id, description, amount, type, category_id, card_id,
				frequency, start_date, end_date, next_execution_date, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		recurring.Id,
		userId,
		recurring.Description,
		recurring.Amount,
		recurring.Type,
		recurring.CategoryId,
		recurring.CardId,
		recurring.Frequency,
		recurring.StartDate,
		recurring.EndDate,
		recurring.NextExecutionDate,
		recurring.IsActive,
	).Scan(&recurring.CreatedAt, &recurring.UpdatedAt)
	if refErr := database.InvalidReference(err, references); refErr != nil {
		log.Debugf("recurring transaction of user %d rejected: %v", userId, err)
		return RecurringTransaction{}, refErr
	}
	if err != nil {
		err := fmt.Errorf("could not insert recurring transaction: %w", err)
		log.Error(err)
		return RecurringTransaction{}, err
	}
	return recurring, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, recurring RecurringTransaction) (RecurringTransaction, error) {
	recurring.UserId = userId
	query := `UPDATE recurring_transactions SET description = $1, amount = $2, type = $3, category_id = $4,
				card_id = $5, frequency = $6, start_date = $7, end_date = $8, next_execution_date = $9,
				is_active = $10, updated_at = now()
			  WHERE id = $11 AND user_id = $12 RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		recurring.Description,
		recurring.Amount,
		recurring.Type,
		recurring.CategoryId,
		recurring.CardId,
		recurring.Frequency,
		recurring.StartDate,
		recurring.EndDate,
		recurring.NextExecutionDate,
		recurring.IsActive,
		recurring.Id,
		userId,
	).Scan(&recurring.CreatedAt, &recurring.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RecurringTransaction{}, ErrRecurringNotFound
	}
	if refErr := database.InvalidReference(err, references); refErr != nil {
		log.Debugf("recurring transaction %s of user %d rejected: %v", recurring.Id, userId, err)
		return RecurringTransaction{}, refErr
	}
	if err != nil {
		err := fmt.Errorf("could not update recurring transaction: %w", err)
		log.Error(err)
		return RecurringTransaction{}, err
	}
	return recurring, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id string) error {
	result, err := r.db.Exec(ctx, "DELETE FROM recurring_transactions WHERE id = $1 AND user_id = $2", id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete recurring transaction: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRecurringNotFound
	}
	return nil
}
