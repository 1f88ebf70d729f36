package entity

import "time"

// RetiredAssociate es el espejo archivado de un Associate retirado.
// El archivo es append-only: el core nunca lo muta ni lo borra.
type RetiredAssociate struct {
	ID            string
	Cedula        string
	Nombre        string
	Apellido      string
	Zona          string
	FechaIngreso  time.Time
	RetiredDate   time.Time
	RetiredReason string
	RetiredBy     string
	CreatedAt     time.Time // fecha de creación original del asociado vivo
}

// RetiredDeliveryHistory es el espejo archivado de un DeliveryRecord, con
// referencia al retirado y al id de la entrega original.
type RetiredDeliveryHistory struct {
	ID           string
	RetiredID    string // RetiredAssociate.ID
	OriginalID   string // DeliveryRecord.ID original
	Element      string
	Quantity     int
	DeliveryDate time.Time
	Observations string
	SignatureRef string
	Status       string
	ArchivedAt   time.Time
}
