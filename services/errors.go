package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Workflow error taxonomy. Routes translate these to HTTP statuses; raw
// store or gateway errors must never reach the boundary untyped.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
	}
	return e.Entity + " not found"
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// ConflictError reports a duplicate-creation attempt and carries the
// identity of the resource that already exists.
type ConflictError struct {
	Message    string
	ExistingID uint
}

func (e *ConflictError) Error() string { return e.Message }

// GatewayError is a payment processor rejection. Code is the processor's
// declared error code; UserMessage is the mapped user-facing text.
type GatewayError struct {
	Code        string
	Message     string
	UserMessage string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
}

// declineMessages maps processor decline codes to actionable user text.
// Unknown codes fall back to a generic message.
var declineMessages = map[string]string{
	"card_declined":           "Your card was declined. Please try a different payment method.",
	"insufficient_funds":      "Your card has insufficient funds.",
	"invalid_cvc":             "The security code is incorrect.",
	"expired_card":            "Your card has expired.",
	"incorrect_number":        "The card number is incorrect.",
	"authentication_required": "This payment requires additional authentication.",
}

const genericDeclineMessage = "The payment could not be processed. Please try again."

// NewGatewayError builds a GatewayError with the user-facing message
// resolved from the processor code.
func NewGatewayError(code, message string) *GatewayError {
	userMsg, ok := declineMessages[code]
	if !ok {
		userMsg = genericDeclineMessage
	}
	return &GatewayError{Code: code, Message: message, UserMessage: userMsg}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsForbidden(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// notFoundOr maps a missing-record store error to NotFoundError and passes
// anything else (connection failures, timeouts) through untouched.
func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

func AsGatewayError(err error) (*GatewayError, bool) {
	var e *GatewayError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
