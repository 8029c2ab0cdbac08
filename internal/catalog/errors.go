package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// NetworkErrorKind distinguishes recoverable fetch failures so the caller
// can show a specific, retry-able message per kind.
type NetworkErrorKind int

const (
	// NetworkErrorOther covers unexpected statuses, malformed bodies, and
	// transport failures that are neither connectivity nor timeout.
	NetworkErrorOther NetworkErrorKind = iota

	// NetworkErrorNoConnectivity means the host could not be reached at
	// all (DNS failure, connection refused, no route).
	NetworkErrorNoConnectivity

	// NetworkErrorTimeout means the request or response deadline expired.
	NetworkErrorTimeout
)

// NetworkError wraps a failed catalog request. It is recoverable: the fetch
// may be retried by a later, explicitly triggered sync pass.
type NetworkError struct {
	Kind NetworkErrorKind
	Op   string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("catalog request %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AsNetworkError returns the NetworkError in err's chain, if any.
func AsNetworkError(err error) (*NetworkError, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// classify wraps a transport error into the taxonomy. Context cancellation
// is never wrapped: it must propagate unchanged so callers can tell a user
// abort from a network fault.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	kind := NetworkErrorOther

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = NetworkErrorTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = NetworkErrorTimeout
	default:
		var dnsErr *net.DNSError
		var opErr *net.OpError
		if errors.As(err, &dnsErr) {
			kind = NetworkErrorNoConnectivity
		} else if errors.As(err, &opErr) && opErr.Op == "dial" {
			kind = NetworkErrorNoConnectivity
		}
	}

	return &NetworkError{Kind: kind, Op: op, Err: err}
}
