// Package health holds the /healthz response.
package health

import "time"

type ComponentStatus struct {
	Status  string `json:"status"` // ok | error | disabled
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status     string                     `json:"status"` // ready | degraded
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentStatus `json:"components"`
	Timestamp  time.Time                  `json:"timestamp"`
}
