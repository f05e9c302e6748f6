package util

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"

	"github.com/runpod/podssh/pkg/entity"
	breverrors "github.com/runpod/podssh/pkg/errors"
)

const (
	DefaultWaitTimeout  = 5 * time.Minute
	DefaultPollInterval = 5 * time.Second
)

// PodPollingStore is the minimal interface needed for polling pod state
type PodPollingStore interface {
	GetPod(podID string) (*entity.Pod, error)
}

// WaitForAddress polls the pod until it exposes a public ssh port. Unknown and
// stopped pods fail immediately.
func WaitForAddress(ctx context.Context, s *spinner.Spinner, pollingStore PodPollingStore, podID string, timeout, interval time.Duration) (entity.PodAddress, error) {
	s.Suffix = fmt.Sprintf(" waiting for pod %s to expose ssh...", podID)
	s.Start()
	defer s.Stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pod, err := pollingStore.GetPod(podID)
		if err != nil {
			return entity.PodAddress{}, breverrors.NewResolutionError(podID, "pod lookup failed", err)
		}
		if pod == nil {
			return entity.PodAddress{}, breverrors.NewResolutionError(podID, "pod not found", nil)
		}
		if pod.IsStopped() {
			return entity.PodAddress{}, breverrors.NewResolutionError(podID, "pod is "+pod.DesiredStatus, nil)
		}
		if addr, ok := pod.SSHAddress().Get(); ok {
			return addr, nil
		}

		select {
		case <-ctx.Done():
			return entity.PodAddress{}, breverrors.NewResolutionError(podID,
				fmt.Sprintf("no public ssh port after %v", timeout), ctx.Err())
		case <-ticker.C:
		}
	}
}
