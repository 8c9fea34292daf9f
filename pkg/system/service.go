// Package system covers the service-level endpoints: remote UI config and health.
package system

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/amiskov/guide-client/pkg/logger"
)

type RemoteConfig struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

type Health struct {
	Status string `json:"status"`
}

func (h *Health) OK() bool {
	return h.Status == "healthy"
}

type Service struct {
	client *resty.Client
}

func NewService(c *resty.Client) *Service {
	return &Service{
		client: c,
	}
}

func (s *Service) Config(ctx context.Context) (*RemoteConfig, error) {
	cfg := new(RemoteConfig)
	_, err := s.client.R().
		SetContext(ctx).
		SetResult(cfg).
		Get("/config")
	if err != nil {
		logger.Log(ctx).Errorf("system: can't get config, %v", err)
		return nil, err
	}
	return cfg, nil
}

// Health works without a session.
func (s *Service) Health(ctx context.Context) (*Health, error) {
	h := new(Health)
	_, err := s.client.R().
		SetContext(ctx).
		SetResult(h).
		Get("/health")
	if err != nil {
		logger.Log(ctx).Errorf("system: health check failed, %v", err)
		return nil, err
	}
	return h, nil
}
