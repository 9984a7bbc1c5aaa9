package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrReferenceNotFound = errors.New("referencia no encontrada")
	ErrDecode            = errors.New("fila inválida")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnreadableSheet   = errors.New("archivo no reconocido como tabla de clientes")
	ErrAlreadyAttached   = errors.New("el elemento ya pertenece a otro cliente")
)

// Tipos de entidad usados en los mensajes de error.
const (
	KindCustomer     = "Customer"
	KindCity         = "City"
	KindCountry      = "Country"
	KindFamilyMember = "Family member"
)

// NotFoundError el id no corresponde a una entidad existente del tipo esperado.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Kind, e.ID)
}

// Is permite errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateNICError el NIC ya está registrado por otro cliente.
type DuplicateNICError struct {
	NIC string
}

func (e *DuplicateNICError) Error() string {
	return fmt.Sprintf("Customer with NIC %s already exists", e.NIC)
}

// Is permite errors.Is(err, ErrDuplicate).
func (e *DuplicateNICError) Is(target error) bool { return target == ErrDuplicate }

// ReferenceNotFoundError una ciudad, país o familiar referenciado no existe al momento del mapeo.
type ReferenceNotFoundError struct {
	Kind string
	ID   int64
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Kind, e.ID)
}

// Is permite errors.Is(err, ErrReferenceNotFound).
func (e *ReferenceNotFoundError) Is(target error) bool { return target == ErrReferenceNotFound }

// DecodeError una fila de la hoja de cálculo no se pudo convertir en registro.
type DecodeError struct {
	Column string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Column == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Column, e.Reason)
}

// Is permite errors.Is(err, ErrDecode).
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
