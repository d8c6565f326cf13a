package model

import "time"

type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SamePoint compares coordinates only; capture time and accuracy are ignored.
func (l Location) SamePoint(other Location) bool {
	return l.Lat == other.Lat && l.Lng == other.Lng
}
