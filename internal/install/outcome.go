package install

import (
	"errors"
	"time"
)

// ErrAlreadyInstalled is matched by the error Run returns when the
// application is already installed.
var ErrAlreadyInstalled = errors.New("already installed")

// Kind separates failures that abort the install from those that are only logged.
type Kind int

const (
	// Fatal failures roll the transaction back and are returned to the caller.
	Fatal Kind = iota
	// Advisory failures are logged and the install continues.
	Advisory
)

func (k Kind) String() string {
	if k == Advisory {
		return "advisory"
	}
	return "fatal"
}

// Error is a failed install step.
type Error struct {
	Step    string
	Kind    Kind
	Message string // human-readable, translated
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Step + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status tags the result of one step.
type Status int

const (
	Succeeded Status = iota
	AdvisoryFailure
	FatalFailure
)

// Outcome is what a step reports back to the orchestrator.
type Outcome struct {
	Status Status
	Err    *Error
}

func succeeded() Outcome {
	return Outcome{Status: Succeeded}
}

func advisory(step string, err error) Outcome {
	return Outcome{Status: AdvisoryFailure, Err: &Error{Step: step, Kind: Advisory, Err: err}}
}

func fatal(step, message string, err error) Outcome {
	return Outcome{Status: FatalFailure, Err: &Error{Step: step, Kind: Fatal, Message: message, Err: err}}
}

// AdvisoryNote is a non-fatal problem recorded during a committed install.
type AdvisoryNote struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// Report describes a committed install.
type Report struct {
	Edition      string         `json:"edition"`
	Records      []string       `json:"records"`
	UserID       int64          `json:"user_id"`
	SessionToken string         `json:"-"`
	LicenseKey   string         `json:"license_key"`
	Advisories   []AdvisoryNote `json:"advisories,omitempty"`
	Duration     time.Duration  `json:"duration"`
}
