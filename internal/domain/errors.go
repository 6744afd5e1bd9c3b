package domain

import "errors"

var (
	ErrInvalidBudget   = errors.New("budget must be a non-negative whole number")
	ErrPurposeRequired = errors.New("purpose must be selected before a budget")
	ErrUnknownPurpose  = errors.New("unknown purpose")
	ErrNoMatches       = errors.New("no catalog entries match")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session state")
	ErrNotOperator     = errors.New("caller is not the operator")
	ErrEmptyReport     = errors.New("report has no rows")
	ErrStatsNotFound   = errors.New("stats artifact not found")
)
