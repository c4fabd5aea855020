package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Specialist a practitioner patients can book with
type Specialist struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// FullName "Nombre Apellido"
func (s Specialist) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Specialty a medical discipline
type Specialty struct {
	ID   int64
	Name string
}

// Patient a person record linked to an auth identity (ID совпадает с ID пользователя провайдера)
type Patient struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	DNI       string
}

// FullName "Nombre Apellido"
func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
