package store

import "github.com/runpod/podssh/pkg/config"

type BasicStore struct {
	config config.ConstantsConfig
}

func NewBasicStore() *BasicStore {
	return &BasicStore{config: *config.GlobalConfig}
}
