package ssh

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"pgha-inspect/pkg/utils"
)

const defaultTimeout = 30 * time.Second

var ErrNotConnected = errors.New("SSH connection not established")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	// KnownHostsFile defaults to ~/.ssh/known_hosts. Unknown hosts are
	// accepted with a warning; mismatched keys are rejected.
	KnownHostsFile string
}

type Client struct {
	config Config
	conn   *ssh.Client
}

type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func NewClient(config Config) *Client {
	if config.Port == 0 {
		config.Port = 22
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	return &Client{
		config: config,
	}
}

func (c *Client) Address() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

func (c *Client) Host() string {
	return c.config.Host
}

// Connect opens the transport. Failures come back as *utils.AppError with
// code ErrCodeResolve, ErrCodeAuth or ErrCodeProtocol.
func (c *Client) Connect() error {
	password := c.config.Password
	config := &ssh.ClientConfig{
		User: c.config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		Timeout:         c.config.Timeout,
		HostKeyCallback: c.hostKeyCallback(),
	}

	conn, err := ssh.Dial("tcp", c.Address(), config)
	if err != nil {
		return classifyDialError(c.config.Host, err)
	}

	c.conn = conn
	return nil
}

func classifyDialError(host string, err error) error {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return utils.NewResolveError(host, err)
	case strings.Contains(err.Error(), "unable to authenticate"):
		return utils.NewAuthError(host, err)
	default:
		return utils.NewProtocolError(host, err)
	}
}

func (c *Client) hostKeyCallback() ssh.HostKeyCallback {
	path := c.config.KnownHostsFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".ssh", "known_hosts")
		}
	}

	known, err := knownhosts.New(path)
	if err != nil {
		return func(hostname string, _ net.Addr, key ssh.PublicKey) error {
			warnUnknownHost(hostname, key)
			return nil
		}
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := known(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) == 0 {
			warnUnknownHost(hostname, key)
			return nil
		}
		return err
	}
}

func warnUnknownHost(hostname string, key ssh.PublicKey) {
	zap.L().Warn("Unknown host key accepted",
		zap.String("host", hostname),
		zap.String("key_type", key.Type()),
		zap.String("fingerprint", ssh.FingerprintSHA256(key)),
	)
}

// Execute runs cmd in a fresh session. A non-zero exit status is reported in
// the result, not as an error; err is set only when the command could not be
// run at all.
func (c *Client) Execute(cmd string) (*CommandResult, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	session, err := c.conn.NewSession()
	if err != nil {
		return nil, fmt.Errorf("create SSH session: %w", err)
	}
	defer session.Close()

	var stdoutBuf, stderrBuf strings.Builder
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	err = session.Run(cmd)

	result := &CommandResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	var exitErr *ssh.ExitError
	var missingErr *ssh.ExitMissingError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitStatus()
	case errors.As(err, &missingErr):
		result.ExitCode = -1
	default:
		return result, fmt.Errorf("run command: %w", err)
	}

	return result, nil
}

// Run returns the raw stdout and stderr text of cmd.
func (c *Client) Run(cmd string) (string, string, error) {
	result, err := c.Execute(cmd)
	if result == nil {
		return "", "", err
	}
	return result.Stdout, result.Stderr, err
}

// FetchFile copies remotePath to localPath over an SFTP channel that lives
// only for the duration of the call.
func (c *Client) FetchFile(remotePath, localPath string) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	client, err := sftp.NewClient(c.conn)
	if err != nil {
		return fmt.Errorf("open SFTP channel: %w", err)
	}
	defer client.Close()

	src, err := client.Open(remotePath)
	if err != nil {
		return fmt.Errorf("open remote file %s: %w", remotePath, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o750); err != nil {
		return err
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy %s: %w", remotePath, err)
	}

	return dst.Close()
}

func (c *Client) Close() error {
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
