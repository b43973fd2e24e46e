package domain

import "time"

// Product is the inventory record. Stock never goes below zero and Version
// increments exactly once per successful stock mutation; every decrement goes
// through the reservation protocol in the service layer.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    int32
	Stock       int32
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
