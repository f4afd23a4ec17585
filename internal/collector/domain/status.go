package domain

import (
	"errors"
	"time"
)

// Status is a point-in-time snapshot of the background collection job.
type Status struct {
	IsRunning bool       `json:"is_running"`
	LastRun   *time.Time `json:"last_run"`
	LastError *string    `json:"last_error"`
	Progress  string     `json:"progress"`
}

type StartResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var ErrAlreadyRunning = errors.New("collection_already_running")
