package util

import (
	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/runpod/podssh/pkg/entity"
)

type mockPodStore struct {
	mock.Mock
}

func (m *mockPodStore) GetPod(podID string) (*entity.Pod, error) {
	args := m.Called(podID)
	pod, _ := args.Get(0).(*entity.Pod)
	return pod, args.Error(1)
}

func (m *mockPodStore) ResolveKeyFile(host string, port int) (mo.Option[string], error) {
	args := m.Called(host, port)
	return args.Get(0).(mo.Option[string]), args.Error(1)
}

func (m *mockPodStore) ListExclusions() ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}
