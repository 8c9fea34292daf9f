package chat

import (
	"context"
	"strconv"

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

// Send posts a message with an optional image. The body is form encoded
// without an image and multipart with one.
func (s *Service) Send(ctx context.Context, message string, image *common.File) (*Reply, error) {
	env := new(common.Envelope)
	req := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"message": message}).
		SetResult(env)
	if image != nil {
		req.SetFileReader("image", image.Name, image.Reader)
	}

	if _, err := req.Post("/chat/send"); err != nil {
		logger.Log(ctx).Errorf("chat: can't send message, %v", err)
		return nil, err
	}
	if err := env.Err(); err != nil {
		logger.Log(ctx).Errorf("chat: message refused, %v", err)
		return nil, err
	}

	reply := new(Reply)
	if err := env.Decode(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *Service) History(ctx context.Context) (*History, error) {
	h := new(History)
	_, err := s.client.R().
		SetContext(ctx).
		SetResult(h).
		Get("/chat/history")
	if err != nil {
		logger.Log(ctx).Errorf("chat: can't get history, %v", err)
		return nil, err
	}
	return h, nil
}

// Latest returns the newest n messages; n <= 0 leaves the count to the server.
func (s *Service) Latest(ctx context.Context, n int) (*History, error) {
	h := new(History)
	req := s.client.R().
		SetContext(ctx).
		SetResult(h)
	if n > 0 {
		req.SetQueryParam("limit", strconv.Itoa(n))
	}
	if _, err := req.Get("/chat/latest"); err != nil {
		logger.Log(ctx).Errorf("chat: can't get latest messages, %v", err)
		return nil, err
	}
	return h, nil
}
