package domain

import (
	"fmt"
	"time"
)

type ChatID int64
type UserID int64

type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAwaitingBudget Phase = "awaiting_budget"
)

type SessionState struct {
	Phase     Phase
	Purpose   Purpose
	UpdatedAt time.Time
}

func NewSession(now time.Time) SessionState {
	return SessionState{Phase: PhaseIdle, UpdatedAt: now}
}

func (s SessionState) Validate() error {
	switch s.Phase {
	case PhaseIdle:
		return nil
	case PhaseAwaitingBudget:
		if !s.Purpose.Valid() {
			return fmt.Errorf("%w: awaiting budget without a purpose", ErrInvalidSession)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidSession, s.Phase)
	}
}

// SelectPurpose replaces the session; nothing from the previous state carries over.
func (s SessionState) SelectPurpose(purpose Purpose, now time.Time) SessionState {
	return SessionState{Phase: PhaseAwaitingBudget, Purpose: purpose, UpdatedAt: now}
}

func (s SessionState) AwaitingBudget() bool {
	return s.Phase == PhaseAwaitingBudget && s.Purpose.Valid()
}

// BudgetPurpose returns the purpose a budget applies to, or
// ErrPurposeRequired while no purpose has been chosen.
func (s SessionState) BudgetPurpose() (Purpose, error) {
	if !s.AwaitingBudget() {
		return "", ErrPurposeRequired
	}
	return s.Purpose, nil
}
