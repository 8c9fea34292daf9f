package upload

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/amiskov/guide-client/pkg/common"
	"github.com/amiskov/guide-client/pkg/logger"
)

type Uploaded struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	FileURL  string `json:"file_url"`
}

type Service struct {
	client *resty.Client
}

func NewService(c *resty.Client) *Service {
	return &Service{
		client: c,
	}
}

func (s *Service) Image(ctx context.Context, file *common.File) (*Uploaded, error) {
	env := new(common.Envelope)
	_, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", file.Name, file.Reader).
		SetResult(env).
		Post("/upload")
	if err != nil {
		logger.Log(ctx).Errorf("upload: can't upload `%s`, %v", file.Name, err)
		return nil, err
	}
	if err := env.Err(); err != nil {
		logger.Log(ctx).Errorf("upload: `%s` refused, %v", file.Name, err)
		return nil, err
	}

	out := new(Uploaded)
	if err := env.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}
