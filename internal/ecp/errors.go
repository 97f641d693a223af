package ecp

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/muurk/controku/internal/urls"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeUnreachable indicates a transport-level failure (timeout, refused,
	// DNS, non-success HTTP status)
	ErrTypeUnreachable ErrorType = iota
	// ErrTypeMalformedResponse indicates a body that did not decode into the expected record
	ErrTypeMalformedResponse
	// ErrTypeInvalidParameter indicates caller-supplied parameters were rejected before sending
	ErrTypeInvalidParameter
	// ErrTypeUnsupportedState indicates the device reported a power state outside the two known values
	ErrTypeUnsupportedState
	// ErrTypeNotATelevision indicates a TV-only operation on a non-TV device
	ErrTypeNotATelevision
)

// NetworkErrorSubtype provides more specific classification of unreachable errors
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
	NetworkErrorHTTPStatus
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeUnreachable:
		return "Unreachable"
	case ErrTypeMalformedResponse:
		return "Malformed Response"
	case ErrTypeInvalidParameter:
		return "Invalid Parameter"
	case ErrTypeUnsupportedState:
		return "Unsupported State"
	case ErrTypeNotATelevision:
		return "Not A Television"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is the single error type surfaced by every ECP operation.
type Error struct {
	Type           ErrorType
	Message        string
	StatusCode     int // HTTP status code, when the device answered with a non-success status
	Err            error
	NetworkSubtype NetworkErrorSubtype
	Address        string
}

// Error implements the error interface
func (e *Error) Error() string {
	prefix := e.Type.String()
	if e.Address != "" {
		prefix = fmt.Sprintf("%s (%s)", prefix, e.Address)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError turns a transport error into an unreachable Error with
// the most specific subtype it can find.
func ClassifyNetworkError(err error, address string) *Error {
	if err == nil {
		return nil
	}

	e := &Error{
		Type:           ErrTypeUnreachable,
		Message:        "network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Address:        address,
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded):
		e.Message = "request timed out"
		e.NetworkSubtype = NetworkErrorTimeout
	case errors.As(err, &dnsErr):
		e.Message = fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
		e.NetworkSubtype = NetworkErrorDNS
	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED):
		e.Message = "device refused connection"
		e.NetworkSubtype = NetworkErrorConnectionRefused
	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.EHOSTUNREACH):
		e.Message = "host unreachable"
		e.NetworkSubtype = NetworkErrorHostUnreachable
	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ENETUNREACH):
		e.Message = "network unreachable"
		e.NetworkSubtype = NetworkErrorNetworkUnreachable
	}

	return e
}

// NewUnreachableError creates a transport error with automatic classification
func NewUnreachableError(address, message string, err error) *Error {
	e := ClassifyNetworkError(err, address)
	if e == nil {
		e = &Error{Type: ErrTypeUnreachable, Address: address}
	}
	e.Message = message
	return e
}

// NewStatusError creates an unreachable error for a non-success HTTP status.
// Status granularity beyond reachable/unreachable is kept only for display.
func NewStatusError(address string, statusCode int) *Error {
	return &Error{
		Type:           ErrTypeUnreachable,
		Message:        fmt.Sprintf("unexpected status code: %d", statusCode),
		StatusCode:     statusCode,
		NetworkSubtype: NetworkErrorHTTPStatus,
		Address:        address,
	}
}

// NewMalformedResponseError creates a decoding error
func NewMalformedResponseError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeMalformedResponse,
		Message: message,
		Err:     err,
	}
}

// NewInvalidParameterError creates a validation error
func NewInvalidParameterError(message string) *Error {
	return &Error{
		Type:    ErrTypeInvalidParameter,
		Message: message,
	}
}

// NewUnsupportedStateError creates an error for an unrecognized power mode
func NewUnsupportedStateError(mode string) *Error {
	return &Error{
		Type:    ErrTypeUnsupportedState,
		Message: fmt.Sprintf("device is in unknown power state %q", mode),
	}
}

// NewNotATelevisionError creates an error for TV-only operations on other devices
func NewNotATelevisionError(address string) *Error {
	return &Error{
		Type:    ErrTypeNotATelevision,
		Message: "this device is not a TV",
		Address: address,
	}
}

func hasType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// IsUnreachable reports whether err is a transport-level failure
func IsUnreachable(err error) bool { return hasType(err, ErrTypeUnreachable) }

// IsMalformedResponse reports whether err is a decoding failure
func IsMalformedResponse(err error) bool { return hasType(err, ErrTypeMalformedResponse) }

// IsInvalidParameter reports whether err is a parameter validation failure
func IsInvalidParameter(err error) bool { return hasType(err, ErrTypeInvalidParameter) }

// IsUnsupportedState reports whether err is an unrecognized power state
func IsUnsupportedState(err error) bool { return hasType(err, ErrTypeUnsupportedState) }

// IsNotATelevision reports whether err is a capability-gating failure
func IsNotATelevision(err error) bool { return hasType(err, ErrTypeNotATelevision) }

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Type {
	case ErrTypeUnreachable:
		hint := []string{"Could not talk to the device."}
		switch e.NetworkSubtype {
		case NetworkErrorTimeout:
			hint = append(hint, "Troubleshooting:",
				"  • Check that the device is powered on and awake",
				"  • Try increasing --timeout")
		case NetworkErrorConnectionRefused:
			hint = append(hint, "Troubleshooting:",
				"  • Enable \"Control by mobile apps\" in the device's network settings",
				"  • Verify the device is listening on port 8060")
		case NetworkErrorDNS:
			hint = append(hint, "Troubleshooting:",
				"  • Use the IP address instead of a hostname",
				"  • Run 'controku scan' to find the device address")
		case NetworkErrorHTTPStatus:
			hint = append(hint, fmt.Sprintf("The device answered with HTTP %d.", e.StatusCode),
				"Troubleshooting:",
				"  • The key or command may not be supported by this model",
				"  • Limited-mode control settings can reject commands")
		default:
			hint = append(hint, "Troubleshooting:",
				"  • Make sure you are on the same network as the device",
				"  • Run 'controku scan' to check the device address")
		}
		return strings.Join(hint, "\n")

	case ErrTypeMalformedResponse:
		return strings.Join([]string{
			"Failed to parse the device's response.",
			"The device may be running firmware this tool does not understand.",
		}, "\n")

	case ErrTypeInvalidParameter:
		return strings.Join([]string{
			"The supplied parameters are invalid. Check the error message for details.",
			"Key names and search parameters: " + urls.ECPReference,
		}, "\n")

	case ErrTypeUnsupportedState:
		return "The device is in a power state that cannot be toggled safely (for example, rebooting). Try again shortly."

	case ErrTypeNotATelevision:
		return "Live TV channels are only available on TV-class devices."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeUnreachable:
		switch e.NetworkSubtype {
		case NetworkErrorTimeout:
			return "Device not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Device refused connection"
		case NetworkErrorDNS:
			return "Cannot resolve device hostname"
		case NetworkErrorHostUnreachable:
			return "Device unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		case NetworkErrorHTTPStatus:
			return fmt.Sprintf("Device rejected request (HTTP %d)", e.StatusCode)
		default:
			return "Network error - check connection"
		}
	case ErrTypeMalformedResponse:
		return "Failed to parse device response"
	case ErrTypeNotATelevision:
		return "Device is not a TV"
	default:
		return e.Message
	}
}
