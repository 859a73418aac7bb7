// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/foodmarket/marketplace/internal/models"
)

var (
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrStatusConflict       = errors.New("order status changed concurrently")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidConfirmation  = errors.New("invalid confirmation token")
	ErrInvalidActorKind     = errors.New("invalid user type")
	ErrInvalidPrice         = errors.New("invalid price")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
)

func dbError(err error) error {
	return fmt.Errorf("database error: %w", err)
}

type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unknown order status %q", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrInvalidStatus
}

type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order cannot move from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ConfirmationRequiredError carries what the caller needs to confirm a
// destructive admin action.
type ConfirmationRequiredError struct {
	Action    string                 `json:"action"`
	Target    string                 `json:"target"`
	Token     string                 `json:"confirm_token"`
	ExpiresAt time.Time              `json:"expires_at"`
	Impact    *models.DeletionImpact `json:"impact"`
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%s %s requires confirmation", e.Action, e.Target)
}

func (e *ConfirmationRequiredError) Is(target error) bool {
	return target == ErrConfirmationRequired
}
