package feed

import "time"

const (
	EventChartSaved = "chart.saved"
	EventWelcome    = "welcome"
)

// ChartEvent announces a newly stored chart.
type ChartEvent struct {
	Type      string    `json:"type"`
	ChartID   string    `json:"chart_id"`
	System    string    `json:"system"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Birthdate string    `json:"birthdate,omitempty"`
	At        time.Time `json:"at"`
}

type Welcome struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
	Clients   int    `json:"clients"`
}
