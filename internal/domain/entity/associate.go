package entity

import "time"

// Associate es una persona de la cooperativa que recibe dotaciones.
// Sale del conjunto vivo únicamente a través del retiro (ArchivalMigrator).
type Associate struct {
	ID           string
	Cedula       string // documento de identidad, único
	Nombre       string
	Apellido     string
	Zona         string
	FechaIngreso time.Time
	CreatedAt    time.Time
}
