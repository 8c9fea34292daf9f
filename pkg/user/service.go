package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/amiskov/guide-client/pkg/common"
	"github.com/amiskov/guide-client/pkg/logger"
)

type ISessionStore interface {
	SaveLogin(ctx context.Context, userID, expiresAt string) error
	Clear(ctx context.Context) error
}

type Service struct {
	client   *resty.Client
	sessions ISessionStore
}

var ErrBadLoginResponse = errors.New("user: login answer has no user id or expiry")

func NewService(c *resty.Client, s ISessionStore) *Service {
	return &Service{
		client:   c,
		sessions: s,
	}
}

func (s *Service) Register(ctx context.Context, reg Registration) (*Registered, error) {
	env := new(common.Envelope)
	_, err := s.client.R().
		SetContext(ctx).
		SetBody(reg).
		SetResult(env).
		Post("/auth/register")
	if err != nil {
		logger.Log(ctx).Errorf("user: register request for `%s` failed, %v", reg.Username, err)
		return nil, err
	}
	if err := env.Err(); err != nil {
		logger.Log(ctx).Errorf("user: can't register `%s`, %v", reg.Username, err)
		return nil, err
	}

	out := new(Registered)
	if err := env.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates and, on success, replaces the stored session with the
// user id and expiry from the answer.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginData, error) {
	env := new(common.Envelope)
	_, err := s.client.R().
		SetContext(ctx).
		SetBody(creds).
		SetResult(env).
		Post("/auth/login")
	if err != nil {
		logger.Log(ctx).Errorf("user: login request for `%s` failed, %v", creds.Username, err)
		return nil, err
	}
	if err := env.Err(); err != nil {
		logger.Log(ctx).Errorf("user: login of `%s` refused, %v", creds.Username, err)
		return nil, err
	}

	data := new(LoginData)
	if err := env.Decode(data); err != nil {
		return nil, err
	}
	if data.UserID == `` || data.ExpiresAt == `` {
		return nil, ErrBadLoginResponse
	}

	if err := s.sessions.SaveLogin(ctx, data.UserID.String(), data.ExpiresAt); err != nil {
		logger.Log(ctx).Errorf("user: can't save session of `%s`, %v", data.UserID, err)
		return nil, fmt.Errorf("user: can't save session, %w", err)
	}
	return data, nil
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		logger.Log(ctx).Errorf("user: logout failed, %v", err)
		return err
	}
	return nil
}

func (s *Service) Info(ctx context.Context, userID string) (*Info, error) {
	info := new(Info)
	_, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetResult(info).
		Get("/auth/user/{id}")
	if err != nil {
		logger.Log(ctx).Errorf("user: can't get info of `%s`, %v", userID, err)
		return nil, err
	}
	return info, nil
}
