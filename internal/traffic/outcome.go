package traffic

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// ExceptionKind labels a request that failed before an HTTP status line
// arrived. The labels are stable strings so they can appear in summary
// output and be compared across runs.
type ExceptionKind string

const (
	KindTimeout    ExceptionKind = "timeout"
	KindDNS        ExceptionKind = "dns"
	KindConnection ExceptionKind = "connection"
	KindProtocol   ExceptionKind = "protocol"
	KindUnexpected ExceptionKind = "unexpected"
)

// Outcome is the result of one traffic cycle. Exactly one side is set:
// either the server answered with a status line (any code, including
// 4xx and 5xx) or the request died on the wire and Kind says how.
type Outcome struct {
	Status int
	Kind   ExceptionKind
}

// IsStatus reports whether the cycle reached the server and got a
// response line back.
func (o Outcome) IsStatus() bool { return o.Kind == "" }

// Classify maps a transport error to its exception kind. DNS failures
// are checked before the generic timeout test because a resolver error
// can carry a timeout flag and the more specific label wins. Returns ""
// for a nil error.
func Classify(err error) ExceptionKind {
	if err == nil {
		return ""
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return KindConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}

	// The server spoke, but not HTTP: truncated responses surface as
	// EOF variants and framing problems mention "malformed".
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return KindProtocol
	}
	if msg := err.Error(); strings.Contains(msg, "malformed") || strings.Contains(msg, "protocol error") {
		return KindProtocol
	}

	return KindUnexpected
}
