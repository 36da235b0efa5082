package models

import (
	"encoding/json"
	"time"
)

// Chart is a stored figure set. Figures holds the JSON object written by
// the numerology package, in entry order.
type Chart struct {
	ID        string          `json:"id"`
	System    string          `json:"system"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Birthdate string          `json:"birthdate,omitempty"`
	Figures   json.RawMessage `json:"figures"`
	CreatedAt time.Time       `json:"created_at"`
}
