package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrStrategyNameRequired = errors.New("strategy name is required")
	ErrNotFound             = errors.New("record not found")
	ErrNoMatches            = errors.New("no matches loaded")
)

// ConfigError marks a strategy or policy as misconfigured. Fatal for the
// affected strategy only; other strategies in a batch keep running.
type ConfigError struct {
	Strategy string
	Field    string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Strategy == "" {
		return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("config error in strategy %q: %s: %s", e.Strategy, e.Field, e.Reason)
}

// NewConfigError creates a ConfigError for a strategy field
func NewConfigError(strategy, field, reason string) *ConfigError {
	return &ConfigError{Strategy: strategy, Field: field, Reason: reason}
}

// DataError marks a single match record as unusable. Recoverable: the
// (strategy, match) pair is skipped and counted, never aborting a run.
type DataError struct {
	MatchKey string
	Reason   string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error for match %q: %s", e.MatchKey, e.Reason)
}

// NewDataError creates a DataError for a match record
func NewDataError(matchKey, reason string) *DataError {
	return &DataError{MatchKey: matchKey, Reason: reason}
}

// InvariantError marks a logic defect (a split line settling win+lose, a
// non-positive stake). Hard failure, distinguishable from data skips.
type InvariantError struct {
	Component string
	Reason    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Component, e.Reason)
}

// NewInvariantError creates an InvariantError for a component
func NewInvariantError(component, reason string) *InvariantError {
	return &InvariantError{Component: component, Reason: reason}
}

// IsConfigError reports whether err is a configuration error
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsDataError reports whether err is a recoverable data-quality error
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// IsInvariantError reports whether err is a fatal logic defect
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
