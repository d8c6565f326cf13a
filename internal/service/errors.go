package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrNoVehicleAvailable = errors.New("no rescue vehicle available")
	ErrLocationUnknown    = errors.New("location unknown, enable location services")
)
