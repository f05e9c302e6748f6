package podssh

import (
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// HostKeyPolicy decides how pod host keys are verified, both for the
// in-process session and for the ssh/rsync child processes.
type HostKeyPolicy interface {
	HostKeyCallback() (ssh.HostKeyCallback, error)
	// SSHOptions are passed to the ssh binary, e.g. ["-o", "StrictHostKeyChecking=no"].
	SSHOptions() []string
}

// TrustOnFirstUse accepts any host key. Pods get fresh host keys on every
// restart so there is nothing stable to pin.
type TrustOnFirstUse struct{}

func (TrustOnFirstUse) HostKeyCallback() (ssh.HostKeyCallback, error) {
	return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // trust on first use is the pod contract
}

func (TrustOnFirstUse) SSHOptions() []string {
	return []string{"-o", "StrictHostKeyChecking=no"}
}

// KnownHosts pins host keys to an OpenSSH known_hosts file.
type KnownHosts struct {
	Path string
}

func (k KnownHosts) HostKeyCallback() (ssh.HostKeyCallback, error) {
	return knownhosts.New(k.Path) //nolint:wrapcheck // reported as a ConnectionError by the caller
}

func (k KnownHosts) SSHOptions() []string {
	return []string{"-o", "StrictHostKeyChecking=yes", "-o", "UserKnownHostsFile=" + k.Path}
}
