package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/xela07ax/agentplatform-go/internal/infra"
	"github.com/xela07ax/agentplatform-go/internal/journal"
	"github.com/xela07ax/agentplatform-go/pkg/agentplatform"
)

const defaultCallTimeout = 30 * time.Second

// session is one connected client plus whatever the journal needs.
type session struct {
	client  *agentplatform.Client
	journal *journal.Journal
	closers []func() error
}

func (s *session) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
	// Flush the journal before its sink goes away
	if s.journal != nil {
		s.journal.Stop()
	}
	for _, closer := range s.closers {
		_ = closer()
	}
}

func (a *cliApp) open(ctx context.Context) (*session, error) {
	cfg := a.cfg
	s := &session{}

	opts := []agentplatform.Option{
		agentplatform.WithLogger(a.logger),
		agentplatform.WithConnectTimeout(cfg.ControlPlane.ConnectTimeout),
		agentplatform.WithAPIKey(cfg.ControlPlane.APIKey),
	}
	if len(cfg.Auth.PrivateKey) > 0 {
		opts = append(opts, agentplatform.WithSignedTokens(cfg.Auth.PrivateKey, agentplatform.TokenConfig{
			Issuer:         cfg.Auth.Issuer,
			Subject:        cfg.Auth.Subject,
			OrgID:          cfg.Auth.OrgID,
			TTL:            cfg.Auth.TokenTTL,
			AllowPlaintext: cfg.Auth.AllowPlaintext,
		}))
	}
	if cfg.Reliability.Enabled() {
		opts = append(opts, agentplatform.WithReliability(agentplatform.ReliabilityConfig(cfg.Reliability)))
	}

	sink, err := a.journalSink(ctx, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	if sink != nil {
		s.journal = journal.New(sink, journal.Config{
			BufferSize:    cfg.Journal.BufferSize,
			BatchSize:     cfg.Journal.BatchSize,
			FlushInterval: cfg.Journal.FlushInterval,
		}, a.logger)
		s.journal.Start()
		opts = append(opts, agentplatform.WithUnaryInterceptors(s.journal.UnaryClientInterceptor()))
	}

	opts = append(opts, a.extra...)

	client, err := agentplatform.Connect(ctx, cfg.ControlPlane.Address, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.client = client
	return s, nil
}

func (a *cliApp) journalSink(ctx context.Context, s *session) (journal.Sink, error) {
	cfg := a.cfg
	switch cfg.Journal.Driver {
	case infra.JournalPostgres:
		pg, err := journal.NewPostgresSink(cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pg.Close)

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		a.logger.Debug("journal writes to postgres")
		return pg, nil

	case infra.JournalRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, rdb.Close)

		stream := infra.JournalStreamKey(cfg.Journal.Env)
		a.logger.Debug("journal writes to redis", zap.String("stream", stream))
		return journal.NewRedisSink(rdb, stream, cfg.Journal.StreamMaxLen), nil
	}
	return nil, nil
}

// call runs fn against a fresh session and prints its result as JSON.
func (a *cliApp) call(fn func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
		defer cancel()

		s, err := a.open(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		out, err := fn(ctx, c, s.client)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, out)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
