package entity

import "time"

// Company organización/tenant; todos los recursos se acotan por CompanyID.
type Company struct {
	ID             string
	Name           string
	BusinessNumber string
	Address        string
	Phone          string
	Email          string
	Status         string // active, inactive
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Project obra o proyecto al que se imputa una orden.
type Project struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Location  string
	Status    string // active, completed
	CreatedAt time.Time
	UpdatedAt time.Time
}
