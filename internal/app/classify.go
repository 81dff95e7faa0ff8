package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net"
	"strings"
	"syscall"

	"github.com/bft-labs/enginewatch/internal/domain"
)

// classify maps an engine error to the connection error taxonomy. Errors that
// match nothing specific become fallback, carrying the raw text as detail.
func classify(err error, fallback domain.ConnectErrorKind) *domain.ConnectError {
	if err == nil {
		return nil
	}
	var ce *domain.ConnectError
	if errors.As(err, &ce) {
		return ce
	}

	detail := err.Error()
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return domain.NewConnectError(domain.KindTimeout, detail)
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ENOENT),
		errors.Is(err, fs.ErrNotExist):
		return domain.NewConnectError(domain.KindNotRunning, detail)
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return domain.NewConnectError(domain.KindConnectionLost, detail)
	}

	// The engine reports its own lifecycle only in message text.
	msg := strings.ToLower(detail)
	switch {
	case strings.Contains(msg, "restarting"):
		return domain.NewConnectError(domain.KindRestarting, detail)
	case strings.Contains(msg, "starting"),
		strings.Contains(msg, "503 service unavailable"):
		return domain.NewConnectError(domain.KindStartingUp, detail)
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		return domain.NewConnectError(domain.KindTimeout, detail)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such file or directory"),
		strings.Contains(msg, "cannot connect to the docker daemon"),
		strings.Contains(msg, "the system cannot find the file specified"):
		return domain.NewConnectError(domain.KindNotRunning, detail)
	case strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "eof"):
		return domain.NewConnectError(domain.KindConnectionLost, detail)
	}
	return domain.NewConnectError(fallback, detail)
}
