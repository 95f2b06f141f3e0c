package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/Thucosta0/financepro-sub000/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// references maps the foreign keys of a transaction to its fields. Each one
// also requires the referenced record to belong to the same user.
var references = map[string]string{
	"transactions_category_fk":  "categoryId",
	"transactions_card_fk":      "cardId",
	"transactions_recurring_fk": "recurringTransactionId",
}

type Repository interface {
	// List returns the user's transactions, newest first.
	List(ctx context.Context, userId int) ([]Transaction, error)
	Create(ctx context.Context, userId int, transaction Transaction) (Transaction, error)
	Update(ctx context.Context, userId int, transaction Transaction) (Transaction, error)
	Delete(ctx context.Context, userId int, id string) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context, userId int) ([]Transaction, error) {
	query := `SELECT id, user_id, description, amount, type, category_id, card_id, transaction_date, is_recurring,
				recurring_transaction_id, created_at, updated_at
			  FROM transactions WHERE user_id = $1 ORDER BY transaction_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	transactions := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.Id, &t.UserId, &t.Description, &t.Amount, &t.Type, &t.CategoryId, &t.CardId,
			&t.TransactionDate, &t.IsRecurring, &t.RecurringTransactionId, &t.CreatedAt, &t.UpdatedAt); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return transactions, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, userId int, transaction Transaction) (Transaction, error) {
	if transaction.Id == "" {
		transaction.Id = uuid.NewString()
	}
	transaction.UserId = userId

	query := `INSERT INTO transactions (id, user_id, description, amount, type, category_id, card_id, transaction_date,
				is_recurring, recurring_transaction_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		transaction.Id,
		userId,
		transaction.Description,
		transaction.Amount,
		transaction.Type,
		transaction.CategoryId,
		transaction.CardId,
		transaction.TransactionDate,
		transaction.IsRecurring,
		transaction.RecurringTransactionId,
	).Scan(&transaction.CreatedAt, &transaction.UpdatedAt)
	if refErr := database.InvalidReference(err, references); refErr != nil {
		log.Debugf("transaction of user %d rejected: %v", userId, err)
		return Transaction{}, refErr
	}
	if err != nil {
		err := fmt.Errorf("could not insert transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return transaction, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, transaction Transaction) (Transaction, error) {
	transaction.UserId = userId
	query := `UPDATE transactions SET description = $1, amount = $2, type = $3, category_id = $4, card_id = $5,
				transaction_date = $6, is_recurring = $7, recurring_transaction_id = $8, updated_at = now()
			  WHERE id = $9 AND user_id = $10 RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		transaction.Description,
		transaction.Amount,
		transaction.Type,
		transaction.CategoryId,
		transaction.CardId,
		transaction.TransactionDate,
		transaction.IsRecurring,
		transaction.RecurringTransactionId,
		transaction.Id,
		userId,
	).Scan(&transaction.CreatedAt, &transaction.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if refErr := database.InvalidReference(err, references); refErr != nil {
		log.Debugf("transaction %s of user %d rejected: %v", transaction.Id, userId, err)
		return Transaction{}, refErr
	}
	if err != nil {
		err := fmt.Errorf("could not update transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return transaction, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id string) error {
	result, err := r.db.Exec(ctx, "DELETE FROM transactions WHERE id = $1 AND user_id = $2", id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
