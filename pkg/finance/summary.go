package finance

import (
	"context"
	"fmt"

	"github.com/Thucosta0/financepro-sub000/internal/cache"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	"github.com/shopspring/decimal"
)

// Summary aggregates the user's transactions.
type Summary struct {
	Receitas      decimal.Decimal `json:"receitas"`
	Despesas      decimal.Decimal `json:"despesas"`
	Saldo         decimal.Decimal `json:"saldo"`
	CategoryCount int             `json:"categoryCount"`
}

// Summarize computes the totals of transactions and the number of distinct
// categories they use.
func Summarize(transactions []transaction.Transaction) Summary {
	income, expense := transaction.Totals(transactions)
	categories := make(map[string]struct{})
	for _, t := range transactions {
		categories[t.CategoryId] = struct{}{}
	}
	return Summary{
		Receitas:      income,
		Despesas:      expense,
		Saldo:         income.Sub(expense),
		CategoryCount: len(categories),
	}
}

// GetFinancialSummary returns the summary of the session transactions,
// cached for SummaryTTL.
func (c *Coordinator) GetFinancialSummary(ctx context.Context) (Summary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if cached, ok := cache.Get(c.cache, summaryKey(userId)); ok {
		return cached, nil
	}

	s := c.session(ctx, userId)
	var transactions []transaction.Transaction
	if s.isLoaded(TransactionsCollection) {
		transactions = snapshot(s, c.cols.transactions)
	} else if transactions, err = c.Transactions(ctx); err != nil {
		return Summary{}, err
	}

	summary := Summarize(transactions)
	s.whileOpen(func() {
		cache.Set(c.cache, summaryKey(userId), summary, SummaryTTL)
	})
	return summary, nil
}
