package finance

import (
	"context"
	"fmt"

	"github.com/Thucosta0/financepro-sub000/internal/utils"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	log "github.com/sirupsen/logrus"
)

// ExecuteRecurringTransaction books one occurrence of the recurring definition
// id dated today and moves its next execution date forward. It reports false
// without error when the user has no such definition.
func (c *Coordinator) ExecuteRecurringTransaction(ctx context.Context, id string) (transaction.Transaction, bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return transaction.Transaction{}, false, fmt.Errorf("failed to get current user: %w", err)
	}
	s := c.session(ctx, userId)
	if !s.isLoaded(RecurringCollection) {
		if _, err := c.RecurringTransactions(ctx); err != nil {
			return transaction.Transaction{}, false, err
		}
	}

	definition, found := findRecurring(snapshot(s, c.cols.recurring), id)
	if !found {
		log.Debugf("recurring transaction %s not found for user %d", id, userId)
		return transaction.Transaction{}, false, nil
	}

	recurringId := definition.Id
	created, err := c.AddTransaction(ctx, transaction.Transaction{
		Description:            definition.Description,
		Amount:                 definition.Amount,
		Type:                   transaction.Type(definition.Type),
		CategoryId:             definition.CategoryId,
		CardId:                 definition.CardId,
		TransactionDate:        utils.StartOfDay(c.clock.Now()),
		IsRecurring:            true,
		RecurringTransactionId: &recurringId,
	})
	if err != nil {
		return transaction.Transaction{}, false, err
	}

	definition.NextExecutionDate = definition.Frequency.Advance(definition.NextExecutionDate)
	if _, err := c.UpdateRecurringTransaction(ctx, definition); err != nil {
		return created, true, fmt.Errorf("transaction %s booked but next execution date not saved: %w", created.Id, err)
	}
	log.Debugf("executed recurring transaction %s, next execution on %s", id, definition.NextExecutionDate.Format("2006-01-02"))
	return created, true, nil
}

func findRecurring(definitions []recurring.RecurringTransaction, id string) (recurring.RecurringTransaction, bool) {
	for _, definition := range definitions {
		if definition.Id == id {
			return definition, true
		}
	}
	return recurring.RecurringTransaction{}, false
}
