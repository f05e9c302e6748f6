package errors

import "fmt"

// ResolutionError means the pod address or its private key could not be found.
// It is only produced before any network connection is attempted.
type ResolutionError struct {
	PodID  string
	Reason string
	Err    error
}

func NewResolutionError(podID, reason string, err error) *ResolutionError {
	return &ResolutionError{PodID: podID, Reason: reason, Err: err}
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("could not resolve pod %s: %s", e.PodID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Directive() string {
	return "make sure the pod is running with a public ssh port and that its key is in ~/.runpod/ssh"
}

// ConnectionError covers transport and auth failures, use of a closed
// connection and sessions dropped by the remote side.
type ConnectionError struct {
	Addr string
	Op   string
	Err  error
}

func NewConnectionError(addr, op string, err error) *ConnectionError {
	return &ConnectionError{Addr: addr, Op: op, Err: err}
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ssh %s %s failed", e.Op, e.Addr)
	}
	return fmt.Sprintf("ssh %s %s failed: %s", e.Op, e.Addr, e.Err.Error())
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Directive() string {
	return "reconnect to the pod; sessions are not re-established automatically"
}

type TransferError struct {
	Src string
	Dst string
	Err error
}

func NewTransferError(src, dst string, err error) *TransferError {
	return &TransferError{Src: src, Dst: dst, Err: err}
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("copy %s -> %s failed: %v", e.Src, e.Dst, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

type TerminalError struct {
	ExitCode int
	Err      error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("interactive ssh session exited with status %d: %v", e.ExitCode, e.Err)
}

func (e *TerminalError) Unwrap() error { return e.Err }

type SyncError struct {
	ExitCode int
	Err      error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("rsync exited with status %d: %v", e.ExitCode, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// RemoteCommandError is only returned when remote failures are propagated;
// by default a failing remote command just prints its stderr.
type RemoteCommandError struct {
	PodID    string
	Command  string
	ExitCode int
}

func (e *RemoteCommandError) Error() string {
	return fmt.Sprintf("command %q on pod %s exited with status %d", e.Command, e.PodID, e.ExitCode)
}
