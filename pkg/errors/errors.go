// Package errors provides custom error types for the mf system.
// These errors enable programmatic error checking and consistent
// reporting across the databases, the field engine, and the CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the mf system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrReservedKey indicates an attempt to use a reserved metadata key as a slug
	ErrReservedKey = errors.New("reserved key")

	// ErrNotLoaded indicates a store operation before Load was called
	ErrNotLoaded = errors.New("store not loaded")

	// ErrRegistryUnavailable indicates that a package registry is temporarily unavailable
	ErrRegistryUnavailable = errors.New("registry unavailable")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UnknownFieldError indicates a field name absent from a domain's schema.
type UnknownFieldError struct {
	Field  string
	Schema string
}

// Error implements the error interface
func (e *UnknownFieldError) Error() string {
	if e.Schema != "" {
		return fmt.Sprintf("unknown field %q in %s schema", e.Field, e.Schema)
	}
	return fmt.Sprintf("unknown field %q", e.Field)
}

// Is implements errors.Is support
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewUnknownFieldError creates a new UnknownFieldError
func NewUnknownFieldError(schema, field string) *UnknownFieldError {
	return &UnknownFieldError{Schema: schema, Field: field}
}

// ValidationError represents a validation failure. Violations carries
// every violated constraint, not just the first.
type ValidationError struct {
	Field      string
	Value      any
	Violations []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, strings.Join(e.Violations, "; "))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, violations ...string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Violations: violations}
}

// ParseError represents corrupt persisted data. It is fatal and never
// auto-repaired; the operator restores from a backup instead.
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// BackupError indicates the pre-write backup copy failed. The save is
// aborted and the target file is left unchanged.
type BackupError struct {
	Store string
	Path  string
	Err   error
}

// Error implements the error interface
func (e *BackupError) Error() string {
	return fmt.Sprintf("backup of %s to %s failed: %v", e.Store, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BackupError) Unwrap() error {
	return e.Err
}

// NewBackupError creates a new BackupError
func NewBackupError(store, path string, err error) *BackupError {
	return &BackupError{Store: store, Path: path, Err: err}
}

// WriteError indicates the atomic write (temp file or rename) failed.
// The original file is left unchanged.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("write to %s failed: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError creates a new WriteError
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// APIError represents an error from an external registry API
type APIError struct {
	Registry   string
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Registry, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Registry, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	if e.StatusCode >= 500 {
		return target == ErrRegistryUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(registry string, statusCode int, message string) *APIError {
	return &APIError{Registry: registry, StatusCode: statusCode, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRegistryUnavailable checks if an error indicates registry unavailability
func IsRegistryUnavailable(err error) bool {
	return errors.Is(err, ErrRegistryUnavailable)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(registry string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Registry:   registry,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
