package podssh

import (
	"context"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Session is the subset of *ssh.Session used to run one remote command.
type Session interface {
	StdoutPipe() (io.Reader, error)
	StderrPipe() (io.Reader, error)
	Start(cmd string) error
	Wait() error
	Close() error
}

type SFTPFile interface {
	io.ReadWriteCloser
}

type SFTPClient interface {
	Open(path string) (SFTPFile, error)
	Create(path string) (SFTPFile, error)
	Stat(path string) (os.FileInfo, error)
	Close() error
}

// RemoteClient is an authenticated ssh connection to a pod.
type RemoteClient interface {
	NewSession() (Session, error)
	NewSFTP() (SFTPClient, error)
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, addr string, config *ssh.ClientConfig) (RemoteClient, error)
}

// SSHDialer opens real ssh connections. A zero Timeout means the dial is
// bounded only by the context.
type SSHDialer struct {
	Timeout time.Duration
}

func (d SSHDialer) Dial(ctx context.Context, addr string, config *ssh.ClientConfig) (RemoteClient, error) {
	nd := net.Dialer{Timeout: d.Timeout}
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped as ConnectionError by the caller
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, err //nolint:wrapcheck // wrapped as ConnectionError by the caller
	}
	// handshake is done, the deadline must not leak into the session
	_ = conn.SetDeadline(time.Time{})
	return &sshClient{client: ssh.NewClient(c, chans, reqs)}, nil
}

type sshClient struct {
	client *ssh.Client
}

func (c *sshClient) NewSession() (Session, error) {
	s, err := c.client.NewSession()
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped as ConnectionError by the caller
	}
	return s, nil
}

func (c *sshClient) NewSFTP() (SFTPClient, error) {
	s, err := sftp.NewClient(c.client)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped as TransferError by the caller
	}
	return &sftpClient{client: s}, nil
}

func (c *sshClient) Close() error {
	return c.client.Close() //nolint:wrapcheck // wrapped as ConnectionError by the caller
}

type sftpClient struct {
	client *sftp.Client
}

func (s *sftpClient) Open(path string) (SFTPFile, error) {
	f, err := s.client.Open(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped as TransferError by the caller
	}
	return f, nil
}

func (s *sftpClient) Create(path string) (SFTPFile, error) {
	f, err := s.client.Create(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped as TransferError by the caller
	}
	return f, nil
}

func (s *sftpClient) Stat(path string) (os.FileInfo, error) {
	return s.client.Stat(path) //nolint:wrapcheck // wrapped as TransferError by the caller
}

func (s *sftpClient) Close() error {
	return s.client.Close() //nolint:wrapcheck // wrapped as TransferError by the caller
}
