package budget

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

var ErrBudgetNotFound = errors.New("budget not found")

var references = map[string]string{
	"budgets_category_fk": "categoryId",
}

type BudgetRepo interface {
	GetAll(ctx context.Context, userId int) ([]Budget, error)
	// Store stores a new Budget to the database
	Store(ctx context.Context, userId int, budget Budget) (Budget, error)
	Update(ctx context.Context, userId int, budget Budget) (Budget, error)
	Delete(ctx context.Context, userId int, budgetId string) error
}

type BudgetRepoImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *BudgetRepoImpl {
	return &BudgetRepoImpl{db: db}
}

func (bi *BudgetRepoImpl) GetAll(ctx context.Context, userId int) ([]Budget, error) {
	query := `SELECT id, user_id, category_id, limit_amount, period, year, month, created_at, updated_at
			  FROM budgets WHERE user_id = $1 ORDER BY year DESC, month DESC NULLS FIRST, created_at`
	rows, err := bi.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	budgets := make([]Budget, 0)
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.Id, &b.UserId, &b.CategoryId, &b.LimitAmount, &b.Period, &b.Year, &b.Month,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}

func (bi *BudgetRepoImpl) Store(ctx context.Context, userId int, budget Budget) (Budget, error) {
	if budget.Id == "" {
		budget.Id = uuid.NewString()
	}
	budget.UserId = userId

	query := `INSERT INTO budgets (
                    id,
                    user_id,
                    category_id,
                    limit_amount,
                    period,
                    year,
                    month
				) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`

	err := bi.db.QueryRow(ctx, query,
		budget.Id,
		userId,
		budget.CategoryId,
		budget.LimitAmount,
		budget.Period,
		budget.Year,
		budget.Month,
	).Scan(&budget.CreatedAt, &budget.UpdatedAt)
	if refErr := database.InvalidReference(err, references); refErr != nil {
		log.Debugf("budget of user %d rejected: %v", userId, err)
		return Budget{}, refErr
	}
	if err != nil {
		err := fmt.Errorf("could not insert budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	return budget, nil
}

func (bi *BudgetRepoImpl) Update(ctx context.Context, userId int, budget Budget) (Budget, error) {
	budget.UserId = userId
	query := `UPDATE budgets SET category_id = $1, limit_amount = $2, period = $3, year = $4, month = $5,
				updated_at = now()
			  WHERE id = $6 AND user_id = $7 RETURNING created_at, updated_at`
	err := bi.db.QueryRow(ctx, query,
		budget.CategoryId,
		budget.LimitAmount,
		budget.Period,
		budget.Year,
		budget.Month,
		budget.Id,
		userId,
	).Scan(&budget.CreatedAt, &budget.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Warnf("budget not updated, probably because it does not exist (%s) or the user (%d) is not the owner", budget.Id, userId)
		return Budget{}, ErrBudgetNotFound
	}
	if refErr := database.InvalidReference(err, references); refErr != nil {
		log.Debugf("budget %s of user %d rejected: %v", budget.Id, userId, err)
		return Budget{}, refErr
	}
	if err != nil {
		err := fmt.Errorf("could not update budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	return budget, nil
}

func (bi *BudgetRepoImpl) Delete(ctx context.Context, userId int, budgetId string) error {
	result, err := bi.db.Exec(ctx, "DELETE FROM budgets WHERE id = $1 AND user_id = $2", budgetId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete budget: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		log.Warnf("budget not deleted, probably because it does not exist (%s) or the user (%d) is not the owner", budgetId, userId)
		return ErrBudgetNotFound
	}
	return nil
}
