package entity

import "time"

// Business representa un negocio/tenant del sistema.
type Business struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
}
