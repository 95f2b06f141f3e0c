package category

import (
	"strings"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/validation"
)

type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

type Category struct {
	Id        string
	UserId    int
	Name      string
	Type      Type
	Icon      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Category) Validate() error {
	var errs validation.Errors
	if strings.TrimSpace(c.Name) == "" {
		errs.Add("name", "is required")
	}
	if c.Type != Income && c.Type != Expense {
		errs.Add("type", "must be income or expense")
	}
	return errs.Err()
}
