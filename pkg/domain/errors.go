package domain

import "errors"

// ErrEmptyScript is returned when a session is constructed from a script with no turns.
var ErrEmptyScript = errors.New("script has no turns")

// ErrInvalidScript is returned when a script violates a structural invariant.
var ErrInvalidScript = errors.New("invalid script")

// ErrAlreadyStarted is returned when Start is called on a session that left Idle.
var ErrAlreadyStarted = errors.New("session already started")

// ErrSessionClosed is returned for operations on a torn-down session.
var ErrSessionClosed = errors.New("session closed")

// ErrSessionNotFound is returned when a session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionLimit is returned when the host refuses to open more sessions.
var ErrSessionLimit = errors.New("session limit reached")

// ErrCaseNotFound is returned when a case ID is unknown or has no script.
var ErrCaseNotFound = errors.New("case not found")
