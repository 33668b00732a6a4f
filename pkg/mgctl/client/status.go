package client

import (
	"context"
	"net/http"
)

type StatusService struct {
	client *Client
}

func (c *Client) Status() *StatusService {
	return &StatusService{client: c}
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type BuildInfo struct {
	Component string `json:"component"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

type AccountSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Provider    string `json:"provider"`
	Default     bool   `json:"default"`
	Enabled     bool   `json:"enabled"`
	Reason      string `json:"reason,omitempty"`
	Sender      string `json:"sender,omitempty"`
}

func (s *StatusService) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := s.client.do(ctx, http.MethodGet, "health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (s *StatusService) Version(ctx context.Context) (*BuildInfo, error) {
	var info BuildInfo
	if err := s.client.do(ctx, http.MethodGet, "version", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *StatusService) Accounts(ctx context.Context) ([]AccountSummary, error) {
	var wrapper struct {
		Accounts []AccountSummary `json:"accounts"`
	}
	if err := s.client.do(ctx, http.MethodGet, "accounts", nil, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Accounts, nil
}
