package entity

import (
	"fmt"
	"net"
	"strconv"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	Running    = "RUNNING"
	Exited     = "EXITED"
	Created    = "CREATED"
	Terminated = "TERMINATED"
)

// SSHPrivatePort is the in-container port sshd listens on for every pod.
const SSHPrivatePort = 22

type Pod struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	DesiredStatus string      `json:"desiredStatus"`
	ImageName     string      `json:"imageName"`
	Runtime       *PodRuntime `json:"runtime"`
} // @Name Pod

// SSHAddress is the public endpoint of the pod's sshd, if it has one yet.
func (p *Pod) SSHAddress() mo.Option[PodAddress] {
	if p.Runtime == nil {
		return mo.None[PodAddress]()
	}
	port, ok := lo.Find(p.Runtime.Ports, func(pp PodPort) bool {
		return pp.IsPublicSSH()
	})
	if !ok {
		return mo.None[PodAddress]()
	}
	return mo.Some(PodAddress{Host: port.IP, Port: port.PublicPort})
}

// IsStopped is true for pods that will not come up without user action.
func (p *Pod) IsStopped() bool {
	return p.DesiredStatus == Exited || p.DesiredStatus == Terminated
}

type PodRuntime struct {
	UptimeInSeconds int       `json:"uptimeInSeconds"`
	Ports           []PodPort `json:"ports"`
} // @Name PodRuntime

type PodPort struct {
	IP          string `json:"ip"`
	IsIPPublic  bool   `json:"isIpPublic"`
	PrivatePort int    `json:"privatePort"`
	PublicPort  int    `json:"publicPort"`
	Type        string `json:"type"`
} // @Name PodPort

// IsPublicSSH reports whether the port maps the pod's sshd to a public IP.
func (p PodPort) IsPublicSSH() bool {
	return p.PrivatePort == SSHPrivatePort && p.IsIPPublic && p.IP != "" && p.PublicPort > 0
}

type PodAddress struct {
	Host string
	Port int
}

func (a PodAddress) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// SSHTarget is the user@host form used by ssh and rsync.
func (a PodAddress) SSHTarget(user string) string {
	return fmt.Sprintf("%s@%s", user, a.Host)
}
