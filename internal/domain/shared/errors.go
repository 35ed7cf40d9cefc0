package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a business-rule failure with a stable code token.
// Message is the user-facing text (French) rendered by the UI; Code is what
// clients and tests match on and must never change once published.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Ressource introuvable")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Cette ressource existe déjà")
	ErrInvalidInput  = NewDomainError("VALIDATION_ERROR", "Données invalides")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Authentification requise")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Vous n'êtes pas autorisé à effectuer cette action")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Opération impossible dans l'état actuel")

	ErrOrderNotModifiable = NewDomainError("ORDER_NOT_MODIFIABLE_ERROR", "Cette commande ne peut plus être modifiée")
	ErrInvoiceLocked      = NewDomainError("INVOICE_LOCKED_ERROR", "La facture de cette commande est verrouillée, les montants ne peuvent plus être modifiés")
	ErrInsufficientStock  = NewDomainError("INSUFFICIENT_STOCK", "Stock insuffisant pour cette quantité")
	ErrCreditDenied       = NewDomainError("CREDIT_DENIED", "Commande refusée : ce compte ne dispose d'aucune ligne de crédit")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError("VALIDATION_ERROR", message)
}

// NewCreditLimitExceededError builds the CREDIT_LIMIT_EXCEEDED error with the
// figures the UI needs: the limit, the current outstanding amount and the
// remaining headroom, all tax-included.
func NewCreditLimitExceededError(limit, balance, available decimal.Decimal) *DomainError {
	return NewDomainError("CREDIT_LIMIT_EXCEEDED",
		fmt.Sprintf("Plafond de crédit dépassé : limite %s, encours %s, disponible %s",
			limit.StringFixed(2), balance.StringFixed(2), available.StringFixed(2)))
}

// IsDomainError reports whether err is a DomainError with the given code.
func IsDomainError(err error, code string) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == code
	}
	return false
}
