package voice

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/amiskov/guide-client/pkg/common"
	"github.com/amiskov/guide-client/pkg/logger"
)

type Transcript struct {
	Text string `json:"text"`
}

// Speech is synthesized audio as returned by the server.
type Speech struct {
	ContentType string
	Audio       []byte
}

type Service struct {
	client *resty.Client
}

func NewService(c *resty.Client) *Service {
	return &Service{
		client: c,
	}
}

func (s *Service) Recognize(ctx context.Context, audio *common.File) (*Transcript, error) {
	env := new(common.Envelope)
	_, err := s.client.R().
		SetContext(ctx).
		SetFileReader("audio", audio.Name, audio.Reader).
		SetResult(env).
		Post("/voice/recognize")
	if err != nil {
		logger.Log(ctx).Errorf("voice: recognize request failed, %v", err)
		return nil, err
	}
	if err := env.Err(); err != nil {
		logger.Log(ctx).Errorf("voice: recognition refused, %v", err)
		return nil, err
	}

	out := new(Transcript)
	if err := env.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Synthesize(ctx context.Context, text string) (*Speech, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "audio/*").
		SetBody(map[string]string{"text": text}).
		Post("/voice/synthesize")
	if err != nil {
		logger.Log(ctx).Errorf("voice: synthesize request failed, %v", err)
		return nil, err
	}
	return &Speech{
		ContentType: resp.Header().Get("Content-Type"),
		Audio:       resp.Body(),
	}, nil
}
