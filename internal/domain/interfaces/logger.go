// Package interfaces defines core domain contracts.
//
//nolint:revive // Package name 'interfaces' is intentional for domain layer
package interfaces

import (
	"fmt"
	"os"
	"strings"
)

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs debug-level messages
	Debug(msg string, fields ...Field)

	// Info logs informational messages
	Info(msg string, fields ...Field)

	// Warn logs warning messages
	Warn(msg string, fields ...Field)

	// Error logs error messages
	Error(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field (convenience function)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// NoOpLogger is a logger that does nothing (useful for tests)
type NoOpLogger struct{}

// Debug does nothing (no-op implementation)
func (n *NoOpLogger) Debug(_ string, _ ...Field) {}

// Info does nothing (no-op implementation)
func (n *NoOpLogger) Info(_ string, _ ...Field) {}

// Warn does nothing (no-op implementation)
func (n *NoOpLogger) Warn(_ string, _ ...Field) {}

// Error does nothing (no-op implementation)
func (n *NoOpLogger) Error(_ string, _ ...Field) {}

// ConsoleLogger writes level-prefixed lines to stderr, keeping stdout free
// for the pipeline's own status output.
type ConsoleLogger struct{}

// Debug logs debug-level messages to stderr
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	c.log("DEBUG", msg, fields)
}

// Info logs informational messages to stderr
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log("INFO", msg, fields)
}

// Warn logs warning messages to stderr
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log("WARN", msg, fields)
}

// Error logs error messages to stderr
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log("ERROR", msg, fields)
}

func (c *ConsoleLogger) log(level, msg string, fields []Field) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(": ")
	b.WriteString(msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	fmt.Fprintln(os.Stderr, b.String())
}
