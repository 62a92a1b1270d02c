// Package gerrit implements the ReviewSource and DirectiveSink ports over
// the Gerrit SSH command interface.
package gerrit

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
	"github.com/ericfisherdev/recheckhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.ReviewSource  = (*Client)(nil)
	_ driven.DirectiveSink = (*Client)(nil)
)

// runner executes one remote gerrit command and returns its stdout.
// Abstracted so tests can substitute a fake for the SSH transport.
type runner interface {
	run(ctx context.Context, command string) ([]byte, error)
}

// Client implements the ReviewSource and DirectiveSink ports by running
// "gerrit query" and "gerrit review" commands over SSH.
type Client struct {
	runner runner
}

// NewClient creates a Client that connects to host:port as user,
// authenticating with the private key at keyPath and verifying the server's
// host key against the known_hosts file at knownHostsPath.
func NewClient(host string, port int, user, keyPath, knownHostsPath string) (*Client, error) {
	keyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key %s: %w", keyPath, err)
	}

	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("load known hosts %s: %w", knownHostsPath, err)
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         30 * time.Second,
	}

	return &Client{
		runner: &sshRunner{
			addr:   net.JoinHostPort(host, fmt.Sprintf("%d", port)),
			config: config,
		},
	}, nil
}

// newClientWithRunner creates a Client with an injected runner. Test hook.
func newClientWithRunner(r runner) *Client {
	return &Client{runner: r}
}

// QueryOpenReviews runs the given search expression and returns the matching
// reviews with full comment history and current patch set. Records that fail
// to parse are skipped with a warning; only a transport failure is an error.
func (c *Client) QueryOpenReviews(ctx context.Context, query string) ([]model.Review, error) {
	command := "gerrit query --format=JSON --comments --current-patch-set " + query
	out, err := c.runner.run(ctx, command)
	if err != nil {
		return nil, fmt.Errorf("gerrit query: %w", err)
	}
	return parseQueryOutput(out)
}

// PostDirective posts message as a review comment against the given patch-set
// revision. The directive texts contain no quote characters; the single-quote
// wrapping is what the gerrit CLI expects for messages with spaces.
func (c *Client) PostDirective(ctx context.Context, revision, message string) error {
	command := fmt.Sprintf(`gerrit review --message '"%s"' %s`, message, revision)
	if _, err := c.runner.run(ctx, command); err != nil {
		return fmt.Errorf("gerrit review %s: %w", revision, err)
	}
	return nil
}

// sshRunner runs gerrit commands over a fresh SSH connection per command.
// The bot runs a handful of commands per cycle; connection reuse is not
// worth the reconnect handling it would need.
type sshRunner struct {
	addr   string
	config *ssh.ClientConfig
}

func (r *sshRunner) run(ctx context.Context, command string) ([]byte, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", r.addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, r.addr, r.config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", r.addr, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open ssh session: %w", err)
	}
	defer session.Close()

	out, err := session.Output(command)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", command, err)
	}
	return out, nil
}
