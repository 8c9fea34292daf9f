package artifact

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/amiskov/guide-client/pkg/common"
	"github.com/amiskov/guide-client/pkg/logger"
)

type Service struct {
	client *resty.Client
}

func NewService(c *resty.Client) *Service {
	return &Service{
		client: c,
	}
}

func (s *Service) Search(ctx context.Context, q Query) (*SearchResult, error) {
	env := new(common.Envelope)
	_, err := s.client.R().
		SetContext(ctx).
		SetBody(q).
		SetResult(env).
		Post("/search")
	if err != nil {
		logger.Log(ctx).Errorf("artifact: search `%s` failed, %v", q.Query, err)
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}

	out := new(SearchResult)
	if err := env.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Recognize(ctx context.Context, image *common.File) (*Recognition, error) {
	env := new(common.Envelope)
	_, err := s.client.R().
		SetContext(ctx).
		SetFileReader("image", image.Name, image.Reader).
		SetResult(env).
		Post("/recognize")
	if err != nil {
		logger.Log(ctx).Errorf("artifact: can't recognize `%s`, %v", image.Name, err)
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}

	out := new(Recognition)
	if err := env.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}
