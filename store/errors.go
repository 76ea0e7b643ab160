package store

import "errors"

// Error Handling Guidelines:
// - Services/Stores: Use fmt.Errorf("context: %w", err) for wrapping errors
// - Handlers: Use apperrors.* functions for HTTP-appropriate errors

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that the key is absent or has expired.
	ErrNotFound = errors.New("resource not found")

	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("store closed")
)
