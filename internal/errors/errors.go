package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/focos/internal/logger"
)

var (
	// ErrNotFound is returned by storage providers when a key is absent.
	ErrNotFound = errors.New("not found")
	// ErrNotLoaded is returned when a store is used before Load or after Close.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrAlreadyInitialized is returned by Init when storage already exists.
	ErrAlreadyInitialized = errors.New("storage already initialized")
	// ErrNotInitialized is returned by Load when there is nothing to load.
	ErrNotInitialized = errors.New("storage not initialized, run 'focos init' first")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
