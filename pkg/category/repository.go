package category

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

var ErrCategoryNotFound = errors.New("category not found")

// ErrCategoryInUse is returned when transactions, recurring transactions or
// budgets still reference the category.
var ErrCategoryInUse = errors.New("category is referenced by other records")

type Repository interface {
	List(ctx context.Context, userId int) ([]Category, error)
	Create(ctx context.Context, userId int, category Category) (Category, error)
	Update(ctx context.Context, userId int, category Category) (Category, error)
	Delete(ctx context.Context, userId int, id string) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context, userId int) ([]Category, error) {
	query := `SELECT id, user_id, name, type, icon, color, created_at, updated_at
			  FROM categories WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Id, &c.UserId, &c.Name, &c.Type, &c.Icon, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, userId int, category Category) (Category, error) {
	if category.Id == "" {
		category.Id = uuid.NewString()
	}
	category.UserId = userId

	query := `INSERT INTO categories (id, user_id, name, type, icon, color)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		category.Id,
		userId,
		category.Name,
		category.Type,
		category.Icon,
		category.Color,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	return category, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, category Category) (Category, error) {
	category.UserId = userId
	query := `UPDATE categories SET name = $1, type = $2, icon = $3, color = $4, updated_at = now()
			  WHERE id = $5 AND user_id = $6 RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		category.Name,
		category.Type,
		category.Icon,
		category.Color,
		category.Id,
		userId,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not update category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	return category, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id string) error {
	result, err := r.db.Exec(ctx, "DELETE FROM categories WHERE id = $1 AND user_id = $2", id, userId)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			log.Debugf("category %s is still referenced: %v", id, err)
			return fmt.Errorf("%w: %v", ErrCategoryInUse, err)
		}
		err := fmt.Errorf("could not delete category: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
