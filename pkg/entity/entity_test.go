package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPodPort_IsPublicSSH(t *testing.T) {
	tests := []struct {
		name string
		port PodPort
		want bool
	}{
		{"public ssh", PodPort{IP: "1.2.3.4", IsIPPublic: true, PrivatePort: 22, PublicPort: 2222}, true},
		{"private ip", PodPort{IP: "10.0.0.2", IsIPPublic: false, PrivatePort: 22, PublicPort: 2222}, false},
		{"http port", PodPort{IP: "1.2.3.4", IsIPPublic: true, PrivatePort: 8888, PublicPort: 8888}, false},
		{"no public port", PodPort{IP: "1.2.3.4", IsIPPublic: true, PrivatePort: 22}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.port.IsPublicSSH())
		})
	}
}

func TestPodAddress(t *testing.T) {
	a := PodAddress{Host: "1.2.3.4", Port: 2222}
	assert.Equal(t, "1.2.3.4:2222", a.String())
	assert.Equal(t, "root@1.2.3.4", a.SSHTarget("root"))

	v6 := PodAddress{Host: "::1", Port: 22}
	assert.Equal(t, "[::1]:22", v6.String())
}

func TestPod_SSHAddress(t *testing.T) {
	pod := &Pod{ID: "p1", DesiredStatus: Running}
	assert.True(t, pod.SSHAddress().IsAbsent())

	pod.Runtime = &PodRuntime{Ports: []PodPort{
		{IP: "10.0.0.2", IsIPPublic: false, PrivatePort: 22, PublicPort: 22},
		{IP: "1.2.3.4", IsIPPublic: true, PrivatePort: 22, PublicPort: 40022},
		{IP: "5.6.7.8", IsIPPublic: true, PrivatePort: 22, PublicPort: 22},
	}}
	assert.Equal(t, PodAddress{Host: "1.2.3.4", Port: 40022}, pod.SSHAddress().MustGet())
}

func TestPod_IsStopped(t *testing.T) {
	assert.False(t, (&Pod{DesiredStatus: Running}).IsStopped())
	assert.True(t, (&Pod{DesiredStatus: Exited}).IsStopped())
	assert.True(t, (&Pod{DesiredStatus: Terminated}).IsStopped())
}
