package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsForeignKeyViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: ForeignKeyViolation, ConstraintName: "transaction_category_id_fkey"}

	assert.True(t, IsForeignKeyViolation(fkErr))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("delete category: %w", fkErr)))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(errors.New("connection refused")))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestInvalidReference(t *testing.T) {
	fields := map[string]string{"transactions_category_fk": "categoryId"}

	err := InvalidReference(fmt.Errorf("insert: %w", &pgconn.PgError{Code: ForeignKeyViolation, ConstraintName: "transactions_category_fk"}), fields)
	var validationErr *validation.Error
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "categoryId", validationErr.Field)

	assert.Nil(t, InvalidReference(&pgconn.PgError{Code: ForeignKeyViolation, ConstraintName: "transactions_user_id_fkey"}, fields))
	assert.Nil(t, InvalidReference(&pgconn.PgError{Code: "23505", ConstraintName: "transactions_category_fk"}, fields))
	assert.Nil(t, InvalidReference(errors.New("connection refused"), fields))
}

func TestFindMigrationsPath(t *testing.T) {
	path, err := findMigrationsPath()

	assert.NoError(t, err)
	assert.Contains(t, path, "migrations")
}
