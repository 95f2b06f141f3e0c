package subscription

import (
	"fmt"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/utils"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
)

const DefaultTrialDays = 30

type Status string

const (
	ActiveTrial Status = "active_trial"
	ActivePaid  Status = "active_paid"
	Expired     Status = "expired"
)

// Action is the kind of mutation a user attempts.
type Action string

const (
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

type Evaluation struct {
	Status             Status `json:"status"`
	DaysSinceCreation  int    `json:"daysSinceCreation"`
	TrialDaysRemaining int    `json:"trialDaysRemaining"`
	CanPerformActions  bool   `json:"canPerformActions"`
	StatusText         string `json:"statusText"`
}

// Evaluator derives the access tier of a user from the account age. Nothing
// is memoized, every call reads the clock again.
type Evaluator struct {
	clock     utils.Clock
	trialDays int
}

func NewEvaluator(clock utils.Clock, trialDays int) *Evaluator {
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	return &Evaluator{clock: clock, trialDays: trialDays}
}

func (e *Evaluator) daysSinceCreation(u user.User) int {
	days := int(e.clock.Now().Sub(u.CreatedAt) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

func (e *Evaluator) GetTrialDaysRemaining(u user.User) int {
	return max(0, e.trialDays-e.daysSinceCreation(u))
}

func (e *Evaluator) Status(u user.User) Status {
	if e.GetTrialDaysRemaining(u) > 0 {
		return ActiveTrial
	}
	if hasPaidSubscription(u) {
		return ActivePaid
	}
	return Expired
}

// hasPaidSubscription always reports false: billing records are stored by
// the webhook but not consulted when evaluating access.
func hasPaidSubscription(user.User) bool {
	return false
}

func (e *Evaluator) CanPerformAction(u user.User, action Action) bool {
	switch e.Status(u) {
	case ActiveTrial, ActivePaid:
		return true
	}
	return false
}

func (e *Evaluator) IsInTrial(u user.User) bool {
	return e.Status(u) == ActiveTrial
}

func (e *Evaluator) IsTrialExpired(u user.User) bool {
	return e.Status(u) == Expired
}

func (e *Evaluator) GetStatusText(u user.User) string {
	switch e.Status(u) {
	case ActiveTrial:
		remaining := e.GetTrialDaysRemaining(u)
		if remaining == 1 {
			return "Período de teste: 1 dia restante"
		}
		return fmt.Sprintf("Período de teste: %d dias restantes", remaining)
	case ActivePaid:
		return "Assinatura ativa"
	default:
		return "Período de teste expirado. Assine para continuar usando o FinancePRO."
	}
}

func (e *Evaluator) Evaluate(u user.User) Evaluation {
	status := e.Status(u)
	return Evaluation{
		Status:             status,
		DaysSinceCreation:  e.daysSinceCreation(u),
		TrialDaysRemaining: e.GetTrialDaysRemaining(u),
		CanPerformActions:  status != Expired,
		StatusText:         e.GetStatusText(u),
	}
}
