package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrAlreadyReverted    = errors.New("movimiento ya revertido")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
)

// InsufficientStockError detalla un faltante de stock: qué elemento, cuánto hay
// y cuánto se pidió. Compatible con errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	Element   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d", e.Element, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// LineFailure describe el fallo de una línea dentro de una entrega multi-línea.
type LineFailure struct {
	Index     int    `json:"index"`
	Element   string `json:"element"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
	Reason    string `json:"reason"`
}

// DeliveryValidationError agrupa las líneas que no pasaron la fase de validación
// de una entrega. Cuando se retorna este error no ocurrió ninguna mutación.
type DeliveryValidationError struct {
	Failures []LineFailure
}

func (e *DeliveryValidationError) Error() string {
	return fmt.Sprintf("entrega rechazada: %d línea(s) inválida(s)", len(e.Failures))
}

func (e *DeliveryValidationError) Unwrap() error { return ErrInsufficientStock }

// MigrationFailureError indica que el retiro de un asociado falló; la transacción
// hizo rollback y los datos vivos quedaron intactos.
type MigrationFailureError struct {
	AssociateID string
	Step        string
	Cause       error
}

func (e *MigrationFailureError) Error() string {
	return fmt.Sprintf("retiro de asociado %s falló en %s: %v", e.AssociateID, e.Step, e.Cause)
}

func (e *MigrationFailureError) Unwrap() error { return e.Cause }
