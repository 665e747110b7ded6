package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation represents car-name validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTimeout represents navigation or selector-wait timeouts
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeCancelled represents a user-requested cancellation
	ErrorTypeCancelled ErrorType = "cancelled"
	// ErrorTypeExtraction represents in-page extraction failures
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeSession represents browser or context launch failures
	ErrorTypeSession ErrorType = "session"
	// ErrorTypeExport represents spreadsheet export failures
	ErrorTypeExport ErrorType = "export"
)

// ScrapeError represents a scraper-specific error carrying the scenario it
// occurred in
type ScrapeError struct {
	Type    ErrorType
	Car     string
	Period  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	scope := e.Car
	if e.Period != "" {
		scope = fmt.Sprintf("%s (%s)", e.Car, e.Period)
	}
	switch {
	case scope != "" && e.Err != nil:
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, scope, e.Message, e.Err)
	case scope != "":
		return fmt.Sprintf("[%s] %s: %s", e.Type, scope, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
	default:
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// New creates a new ScrapeError
func New(errType ErrorType, car, period, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Car:     car,
		Period:  period,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewValidation creates a new validation error
func NewValidation(car, message string) *ScrapeError {
	return New(ErrorTypeValidation, car, "", message, nil)
}

// NewTimeout creates a new timeout error
func NewTimeout(car, period, message string, err error) *ScrapeError {
	return New(ErrorTypeTimeout, car, period, message, err)
}

// NewCancelled creates a new cancellation error
func NewCancelled(car, period string) *ScrapeError {
	return New(ErrorTypeCancelled, car, period, "scraping cancelled by user", nil)
}

// NewExtraction creates a new extraction error
func NewExtraction(car, period, message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, car, period, message, err)
}

// NewSession creates a new session error
func NewSession(message string, err error) *ScrapeError {
	return New(ErrorTypeSession, "", "", message, err)
}

// NewExport creates a new export error
func NewExport(message string, err error) *ScrapeError {
	return New(ErrorTypeExport, "", "", message, err)
}

// TypeOf returns the ErrorType of err when it is (or wraps) a ScrapeError,
// and an empty type otherwise.
func TypeOf(err error) ErrorType {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Type
	}
	return ""
}

// IsCancelled reports whether err is a cancellation condition. Cancellation
// is deliberately distinct from ordinary errors so the orchestrator can
// unwind without recording a scenario failure.
func IsCancelled(err error) bool {
	return TypeOf(err) == ErrorTypeCancelled
}

// IsTimeout reports whether err is a timeout condition.
func IsTimeout(err error) bool {
	return TypeOf(err) == ErrorTypeTimeout
}
