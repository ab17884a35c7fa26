package probe

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/tkjaer/regping/internal/shared"
	"github.com/tkjaer/regping/pkg/resolve"
)

// DefaultTimeout is the connect timeout used when none is configured
const DefaultTimeout = 1 * time.Second

// Sampler measures one connection attempt to a host
type Sampler interface {
	Sample(ctx context.Context, host string) shared.TrialOutcome
}

// TCPSampler times TCP connection establishment to a fixed port
type TCPSampler struct {
	network  string
	port     uint16
	timeout  time.Duration
	resolver *resolve.Resolver // nil: resolution happens inside the timed dial

	dialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewTCPSampler creates a sampler dialing network ("tcp", "tcp4" or "tcp6") on port.
// A non-nil resolver moves DNS resolution out of the measured interval.
func NewTCPSampler(network string, port uint16, timeout time.Duration, resolver *resolve.Resolver) *TCPSampler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if network == "" {
		network = "tcp"
	}
	var d net.Dialer
	return &TCPSampler{
		network:     network,
		port:        port,
		timeout:     timeout,
		resolver:    resolver,
		dialContext: d.DialContext,
	}
}

// Sample opens one connection to host and returns the time taken to connect.
// The clock stops as soon as the connection is established; the orderly
// shutdown that follows is not part of the measurement. Failures are
// returned in the outcome, never as a separate error.
func (s *TCPSampler) Sample(ctx context.Context, host string) shared.TrialOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addr := host
	start := time.Now()
	if s.resolver != nil {
		resolved, err := s.resolver.Resolve(ctx, host)
		if err != nil {
			return s.failed(host, time.Since(start), err)
		}
		addr = resolved
		start = time.Now()
	}

	conn, err := s.dialContext(ctx, s.network, net.JoinHostPort(addr, strconv.Itoa(int(s.port))))
	elapsed := time.Since(start)
	if err != nil {
		return s.failed(host, elapsed, err)
	}
	closeGracefully(conn)

	slog.Debug("Ping", "host", host, "elapsed", elapsed)
	return shared.TrialOutcome{Elapsed: elapsed}
}

func (s *TCPSampler) failed(host string, elapsed time.Duration, err error) shared.TrialOutcome {
	slog.Warn("Ping failed", "host", host, "elapsed", elapsed, "error", err)
	return shared.TrialOutcome{Elapsed: elapsed, Err: err}
}

// closeGracefully shuts down both directions before closing so the peer
// sees a FIN rather than a reset.
func closeGracefully(conn net.Conn) {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
		_ = tc.CloseRead()
	}
	if err := conn.Close(); err != nil {
		slog.Debug("Error closing connection", "remote", conn.RemoteAddr(), "error", err)
	}
}
