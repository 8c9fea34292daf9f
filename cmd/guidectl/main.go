package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/amiskov/guide-client/pkg/artifact"
	"github.com/amiskov/guide-client/pkg/common"
	"github.com/amiskov/guide-client/pkg/config"
	"github.com/amiskov/guide-client/pkg/guide"
	"github.com/amiskov/guide-client/pkg/logger"
	"github.com/amiskov/guide-client/pkg/notify"
	"github.com/amiskov/guide-client/pkg/user"
)

const usage = `usage: guidectl [flags] <command> [args]

commands:
  register <username> <email> <password>
  login <username> <password>
  logout
  whoami
  chat send <message> [image]
  chat history
  chat latest [n]
  upload <image>
  stt <audio>
  tts <text> <out-file>
  search <query> [top-k]
  recognize <image>
  config
  health`

type command func(ctx context.Context, c *guide.Client, args []string) (any, error)

var commands = map[string]command{
	"register":  register,
	"login":     login,
	"logout":    logout,
	"whoami":    whoami,
	"chat":      chatCmd,
	"upload":    uploadImage,
	"stt":       speechToText,
	"tts":       textToSpeech,
	"search":    search,
	"recognize": recognize,
	"config": func(ctx context.Context, c *guide.Client, _ []string) (any, error) {
		return c.System.Config(ctx)
	},
	"health": func(ctx context.Context, c *guide.Client, _ []string) (any, error) {
		return c.System.Health(ctx)
	},
}

var errUsage = errors.New(usage)

func main() {
	cfg, args, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	l := logger.Run(cfg.LogLevel)
	defer l.Sync() //nolint:errcheck
	ctx := logger.WithLogger(context.Background(), l)

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command `%s`\n%s\n", args[0], usage)
		os.Exit(2)
	}

	client, err := guide.New(ctx, cfg)
	if err != nil {
		l.Fatalf("can't set up client: %v", err)
	}
	defer client.Close()

	stop := client.OnAuthRequired(func(e notify.Event) {
		fmt.Fprintln(os.Stderr, e.Message)
	})
	defer stop()

	out, err := cmd(ctx, client, args[1:])
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			l.Errorf("can't print result: %v", err)
		}
	}
}

func register(ctx context.Context, c *guide.Client, args []string) (any, error) {
	if len(args) != 3 {
		return nil, errUsage
	}
	return c.Auth.Register(ctx, user.Registration{Username: args[0], Email: args[1], Password: args[2]})
}

func login(ctx context.Context, c *guide.Client, args []string) (any, error) {
	if len(args) != 2 {
		return nil, errUsage
	}
	return c.Auth.Login(ctx, user.Credentials{Username: args[0], Password: args[1]})
}

func logout(ctx context.Context, c *guide.Client, _ []string) (any, error) {
	return nil, c.Auth.Logout(ctx)
}

func whoami(ctx context.Context, c *guide.Client, _ []string) (any, error) {
	s, err := c.Sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Auth.Info(ctx, s.UserID)
}

func chatCmd(ctx context.Context, c *guide.Client, args []string) (any, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	switch args[0] {
	case "send":
		if len(args) < 2 || len(args) > 3 {
			return nil, errUsage
		}
		var image *common.File
		if len(args) == 3 {
			f, err := common.OpenFile(args[2])
			if err != nil {
				return nil, err
			}
			defer f.Close()
			image = f
		}
		return c.Chat.Send(ctx, args[1], image)
	case "history":
		return c.Chat.History(ctx)
	case "latest":
		n := 0
		if len(args) > 1 {
			var err error
			if n, err = strconv.Atoi(args[1]); err != nil {
				return nil, fmt.Errorf("bad count `%s`, %w", args[1], err)
			}
		}
		return c.Chat.Latest(ctx, n)
	}
	return nil, errUsage
}

func uploadImage(ctx context.Context, c *guide.Client, args []string) (any, error) {
	if len(args) != 1 {
		return nil, errUsage
	}
	f, err := common.OpenFile(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.Upload.Image(ctx, f)
}

func speechToText(ctx context.Context, c *guide.Client, args []string) (any, error) {
	if len(args) != 1 {
		return nil, errUsage
	}
	f, err := common.OpenFile(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.Voice.Recognize(ctx, f)
}

func textToSpeech(ctx context.Context, c *guide.Client, args []string) (any, error) {
	if len(args) != 2 {
		return nil, errUsage
	}
	speech, err := c.Voice.Synthesize(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(args[1], speech.Audio, 0o644); err != nil {
		return nil, fmt.Errorf("can't write `%s`, %w", args[1], err)
	}
	return map[string]any{"file": args[1], "content_type": speech.ContentType, "size": len(speech.Audio)}, nil
}

func search(ctx context.Context, c *guide.Client, args []string) (any, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	q := artifact.NewQuery(args[0])
	if len(args) > 1 {
		k, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("bad top-k `%s`, %w", args[1], err)
		}
		q.TopK = k
	}
	q.Query = strings.TrimSpace(q.Query)
	return c.Artifact.Search(ctx, q)
}

func recognize(ctx context.Context, c *guide.Client, args []string) (any, error) {
	if len(args) != 1 {
		return nil, errUsage
	}
	f, err := common.OpenFile(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.Artifact.Recognize(ctx, f)
}
