package card

import (
	"context"
	"errors"
	"fmt"

	"github.com/Thucosta0/financepro-sub000/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrCardNotFound = errors.New("card not found")
var ErrCardInUse = errors.New("card is referenced by other records")

type Repository interface {
	List(ctx context.Context, userId int) ([]Card, error)
	Create(ctx context.Context, userId int, card Card) (Card, error)
	Update(ctx context.Context, userId int, card Card) (Card, error)
	Delete(ctx context.Context, userId int, id string) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context, userId int) ([]Card, error) {
	query := `SELECT id, user_id, name, type, bank, credit_limit, color, last_digits, is_active, created_at, updated_at
			  FROM cards WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query cards: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	cards := make([]Card, 0)
	for rows.Next() {
		var c Card
		var limit decimal.NullDecimal
		if err := rows.Scan(&c.Id, &c.UserId, &c.Name, &c.Type, &c.Bank, &limit, &c.Color, &c.LastDigits,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		if limit.Valid {
			c.Limit = &limit.Decimal
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return cards, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, userId int, card Card) (Card, error) {
	if card.Id == "" {
		card.Id = uuid.NewString()
	}
	card.UserId = userId

	query := `INSERT INTO cards (id, user_id, name, type, bank, credit_limit, color, last_digits, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		card.Id,
		userId,
		card.Name,
		card.Type,
		card.Bank,
		nullableLimit(card.Limit),
		card.Color,
		card.LastDigits,
		card.IsActive,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert card: %w", err)
		log.Error(err)
		return Card{}, err
	}
	return card, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, card Card) (Card, error) {
	card.UserId = userId
	query := `UPDATE cards SET name = $1, type = $2, bank = $3, credit_limit = $4, color = $5, last_digits = $6,
				is_active = $7, updated_at = now()
			  WHERE id = $8 AND user_id = $9 RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		card.Name,
		card.Type,
		card.Bank,
		nullableLimit(card.Limit),
		card.Color,
		card.LastDigits,
		card.IsActive,
		card.Id,
		userId,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Card{}, ErrCardNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not update card: %w", err)
		log.Error(err)
		return Card{}, err
	}
	return card, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id string) error {
	result, err := r.db.Exec(ctx, "DELETE FROM cards WHERE id = $1 AND user_id = $2", id, userId)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			log.Debugf("card %s is still referenced: %v", id, err)
			return fmt.Errorf("%w: %v", ErrCardInUse, err)
		}
		err := fmt.Errorf("could not delete card: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}

func nullableLimit(limit *decimal.Decimal) decimal.NullDecimal {
	if limit == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *limit, Valid: true}
}
