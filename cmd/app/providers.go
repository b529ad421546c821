package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
	"github.com/yanqian/fitness-wizard/internal/domain/delivery"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/domain/wizard"
	"github.com/yanqian/fitness-wizard/internal/infra/claims"
	"github.com/yanqian/fitness-wizard/internal/infra/config"
	"github.com/yanqian/fitness-wizard/internal/infra/joblog"
	"github.com/yanqian/fitness-wizard/internal/infra/llm"
	"github.com/yanqian/fitness-wizard/internal/infra/llm/chatgpt"
	"github.com/yanqian/fitness-wizard/internal/infra/llm/gemini"
	"github.com/yanqian/fitness-wizard/internal/infra/mail"
	"github.com/yanqian/fitness-wizard/internal/infra/mail/resend"
	"github.com/yanqian/fitness-wizard/internal/infra/mail/ses"
	"github.com/yanqian/fitness-wizard/internal/infra/queue"
	"github.com/yanqian/fitness-wizard/internal/infra/storage"
	"github.com/yanqian/fitness-wizard/pkg/metrics"
	"github.com/yanqian/fitness-wizard/pkg/tracing"
)

func providePlanConfig(cfg *config.Config) plan.Config {
	return plan.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
}

func provideTokenCounter() metrics.TokenCounter {
	return metrics.CountTokens
}

func provideTracing(cfg *config.Config, logger *slog.Logger) (tracing.Shutdown, error) {
	return tracing.Setup(context.Background(), cfg, logger)
}

func provideLLMClient(cfg *config.Config, logger *slog.Logger) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case config.LLMProviderGemini:
		logger.Info("using gemini chat model", "model", cfg.LLM.Model)
		return gemini.NewClient(context.Background(), gemini.Config{APIKey: cfg.LLM.GeminiAPIKey})
	default:
		logger.Info("using openai compatible chat model", "model", cfg.LLM.Model, "base_url", cfg.LLM.BaseURL)
		return chatgpt.NewClient(chatgpt.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Timeout: cfg.LLM.Timeout,
			Referer: cfg.LLM.Referer,
			Title:   cfg.LLM.Title,
		})
	}
}

// provideMailer returns a nil Sender when email is disabled so the domain
// services skip sending with a warning.
func provideMailer(cfg *config.Config, logger *slog.Logger) (mail.Sender, error) {
	switch cfg.Mail.Provider {
	case config.MailProviderSES:
		sender, err := ses.NewSender(context.Background(), cfg.Mail.SESRegion, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("ses mailer enabled", "region", cfg.Mail.SESRegion)
		return sender, nil
	case config.MailProviderResend:
		if strings.TrimSpace(cfg.Mail.ResendAPIKey) == "" {
			logger.Warn("no RESEND_API_KEY found, email delivery disabled")
			return nil, nil
		}
		sender, err := resend.NewSender(cfg.Mail.ResendAPIKey, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("resend mailer enabled")
		return sender, nil
	default:
		logger.Warn("email delivery disabled")
		return nil, nil
	}
}

// provideValkeyClient returns a nil client when valkey is disabled or
// unreachable; dependants fall back to their in-memory variants.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	noop := func() {}
	if !cfg.Valkey.Enabled {
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory", "error", err)
		return nil, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory", "error", err)
		client.Close()
		return nil, noop
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}

func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory job log")
		return nil, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory job log", "error", err)
		return nil, noop
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory job log", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory job log", "error", err)
		pool.Close()
		return nil, noop
	}
	return pool, pool.Close
}

func provideJobLog(pool *pgxpool.Pool, logger *slog.Logger) bonus.JobLog {
	if pool == nil {
		return joblog.NewMemoryLog(0)
	}
	pgLog := joblog.NewPostgresLog(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pgLog.EnsureSchema(ctx); err != nil {
		logger.Error("job log schema setup failed, using memory job log", "error", err)
		return joblog.NewMemoryLog(0)
	}
	logger.Info("postgres job log enabled")
	return pgLog
}

func provideClaimStore(client valkey.Client) bonus.ClaimStore {
	if client == nil {
		return claims.NewMemoryStore()
	}
	return claims.NewValkeyStore(client, "fitness:claim")
}

func provideArchive(cfg *config.Config, logger *slog.Logger) delivery.Archive {
	if !cfg.Storage.Enabled {
		return nil
	}
	archive, err := storage.NewS3Archive(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
	}, logger)
	if err != nil {
		logger.Error("pdf archive disabled", "error", err)
		return nil
	}
	logger.Info("pdf archive enabled", "bucket", cfg.Storage.Bucket)
	return archive
}

func provideBonusConfig(cfg *config.Config) bonus.Config {
	return bonus.Config{
		From:         cfg.Mail.From,
		ClaimTTL:     cfg.Bonus.ClaimTTL,
		RequireToken: cfg.Bonus.RequireToken,
	}
}

func provideBonusTokens(cfg *config.Config) *bonus.Tokens {
	return bonus.NewTokens(bonus.TokenConfig{
		Secret: cfg.Bonus.TokenSecret,
		TTL:    cfg.Bonus.TokenTTL,
		Issuer: cfg.App.Name,
	})
}

func provideDeliveryConfig(cfg *config.Config) delivery.Config {
	return delivery.Config{From: cfg.Mail.From, ReplyTo: cfg.Mail.ReplyTo}
}

// provideQueue registers the bonus job handler on the configured queue.
func provideQueue(cfg *config.Config, client valkey.Client, bonusSvc bonus.Service, logger *slog.Logger) queue.Queue {
	var q queue.Queue
	if cfg.Queue.Driver == config.QueueDriverValkey && client != nil {
		logger.Info("valkey job queue enabled", "key", cfg.Queue.Key)
		q = queue.NewValkeyQueue(client, cfg.Queue.Key, logger)
	} else {
		q = queue.NewImmediateQueue(logger)
	}
	q.SetHandler(bonusSvc.HandleJob)
	return q
}

func provideEnqueuer(q queue.Queue) delivery.Enqueuer {
	return q
}

func provideTokenIssuer(svc bonus.Service) wizard.TokenIssuer {
	return svc
}
