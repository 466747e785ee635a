package agentplatform

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

// Client is a handle on one control plane connection. It holds no state
// besides the connection and is safe for concurrent use.
type Client struct {
	conn   *grpc.ClientConn
	rpc    v1.ControlPlaneClient
	logger *zap.Logger
}

// Connect dials address and waits until the channel is ready. Accepted
// forms are host:port, http://host:port (plaintext), https://host[:port]
// (TLS with system roots) and any gRPC target URI such as dns:///host:port.
// Every failure is a ConnectionError.
func Connect(ctx context.Context, address string, opts ...Option) (*Client, error) {
	const op = "Connect"

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.setupErr != nil {
		return nil, connectionError(op, o.setupErr)
	}

	// 1. Validate the address before touching the network
	target, creds, err := parseAddress(address)
	if err != nil {
		return nil, connectionError(op, err)
	}
	if o.creds != nil {
		creds = o.creds
	}

	// 2. Build the channel
	interceptors, err := o.chain()
	if err != nil {
		return nil, connectionError(op, err)
	}
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithChainUnaryInterceptor(interceptors...),
	}
	for _, c := range o.perRPC {
		dialOpts = append(dialOpts, grpc.WithPerRPCCredentials(c))
	}
	dialOpts = append(dialOpts, o.dialOptions...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, connectionError(op, fmt.Errorf("dial %s: %w", target, err))
	}

	// 3. Wait for Ready so an unreachable address fails here, not on the first call
	waitCtx := ctx
	if o.connectTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, o.connectTimeout)
		defer cancel()
	}
	if err := waitForReady(waitCtx, conn); err != nil {
		_ = conn.Close()
		return nil, connectionError(op, fmt.Errorf("connect %s: %w", target, err))
	}

	logger := o.logger.Named("agentplatform")
	logger.Debug("connected", zap.String("target", target))

	return &Client{
		conn:   conn,
		rpc:    v1.NewControlPlaneClient(conn),
		logger: logger,
	}, nil
}

// Close releases the connection. Calls made afterwards fail.
func (c *Client) Close() error {
	return c.conn.Close()
}

func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	conn.Connect()
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.TransientFailure:
			return errors.New("channel in TRANSIENT_FAILURE")
		case connectivity.Shutdown:
			return errors.New("channel shut down")
		}
		if !conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}

func parseAddress(address string) (string, credentials.TransportCredentials, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", nil, errors.New("empty address")
	}

	switch {
	case strings.HasPrefix(address, "http://"), strings.HasPrefix(address, "https://"):
		u, err := url.Parse(address)
		if err != nil {
			return "", nil, fmt.Errorf("malformed address %q: %w", address, err)
		}
		if u.Hostname() == "" {
			return "", nil, fmt.Errorf("malformed address %q: missing host", address)
		}
		if u.Path != "" && u.Path != "/" {
			return "", nil, fmt.Errorf("malformed address %q: unexpected path", address)
		}
		port := u.Port()
		if port == "" {
			port = "80"
			if u.Scheme == "https" {
				port = "443"
			}
		}
		if err := checkPort(port); err != nil {
			return "", nil, fmt.Errorf("malformed address %q: %w", address, err)
		}
		target := net.JoinHostPort(u.Hostname(), port)
		if u.Scheme == "https" {
			return target, credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12}), nil
		}
		return target, insecure.NewCredentials(), nil

	case strings.Contains(address, "://"):
		// gRPC target URI, resolved by grpc itself
		return address, insecure.NewCredentials(), nil

	default:
		_, port, err := net.SplitHostPort(address)
		if err != nil {
			return "", nil, fmt.Errorf("malformed address %q: %w", address, err)
		}
		if err := checkPort(port); err != nil {
			return "", nil, fmt.Errorf("malformed address %q: %w", address, err)
		}
		return address, insecure.NewCredentials(), nil
	}
}

func checkPort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

// fail converts a call failure into an *Error and logs it.
func (c *Client) fail(op string, err error) error {
	e := classify(op, err)
	c.logger.Debug("call failed",
		zap.String("op", op),
		zap.Stringer("kind", e.Kind),
		zap.Stringer("code", e.Code),
		zap.Error(err),
	)
	return e
}
