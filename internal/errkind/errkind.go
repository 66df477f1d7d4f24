// Package errkind classifies failures at storage boundaries so that every
// caller can apply the same log-and-continue policy.
package errkind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind names a class of boundary failure.
type Kind string

const (
	Unknown       Kind = "unknown"
	Connectivity  Kind = "connectivity"
	Serialization Kind = "serialization"
	Timeout       Kind = "timeout"
	NotFound      Kind = "not_found"
)

// Sentinels wrapped by boundary packages.
var (
	ErrConnectivity  = errors.New("connectivity error")
	ErrSerialization = errors.New("serialization error")
	ErrTimeout       = errors.New("operation timeout")
	ErrNotFound      = errors.New("not found")
)

// Wrap annotates err with a sentinel and a context message. Returns nil for a
// nil err.
func Wrap(sentinel, err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", context, sentinel, err)
}

// Wrapf is Wrap with a formatted context.
func Wrapf(sentinel, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(sentinel, err, fmt.Sprintf(format, args...))
}

// Classify maps an error to its Kind. Sentinels win over driver inspection.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return NotFound
	case errors.Is(err, ErrSerialization):
		return Serialization
	case errors.Is(err, ErrTimeout):
		return Timeout
	case errors.Is(err, ErrConnectivity):
		return Connectivity
	}

	if isSerialization(err) {
		return Serialization
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	if isConnectivity(err) {
		return Connectivity
	}

	return Unknown
}

// Is reports whether err classifies as kind.
func Is(err error, kind Kind) bool {
	return Classify(err) == kind
}

func isSerialization(err error) bool {
	var (
		unsupportedType  *json.UnsupportedTypeError
		unsupportedValue *json.UnsupportedValueError
		marshalerErr     *json.MarshalerError
		syntaxErr        *json.SyntaxError
		typeErr          *json.UnmarshalTypeError
	)
	return errors.As(err, &unsupportedType) ||
		errors.As(err, &unsupportedValue) ||
		errors.As(err, &marshalerErr) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr)
}

func isConnectivity(err error) bool {
	if mongo.IsNetworkError(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	return errors.As(err, &opErr) || errors.As(err, &dnsErr)
}
