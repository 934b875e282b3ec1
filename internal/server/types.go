package server

import (
	"time"

	"github.com/CK6170/sensorcal-go/modern"
)

type APIError struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	OK        bool      `json:"ok"`
	Sensors   int       `json:"sensors"`
	Runs      int       `json:"runs"`
	Timestamp time.Time `json:"timestamp"`
}

type RunResponse struct {
	ID      string         `json:"id"`
	Created time.Time      `json:"created"`
	Summary modern.Summary `json:"summary"`
}

// RunEvent is the payload of stage and error messages on /ws/runs.
type RunEvent struct {
	RunID string `json:"runId"`
	*modern.StageUpdate
	Error string `json:"error,omitempty"`
}

// HelloMessage is sent once to every new /ws/runs connection.
type HelloMessage struct {
	Sensors []string `json:"sensors"`
}
