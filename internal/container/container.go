package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/config"
	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/cache"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/eventbus"
	pginfra "github.com/oksasatya/go-ddd-identity/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	mailtpl "github.com/oksasatya/go-ddd-identity/pkg/mailer/templates"
)

// Container holds the components shared by the API server and the seeder.
// It is built once in main and passed down; there are no package globals.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool   *pgxpool.Pool
	Redis  *redis.Client
	ES     *elasticsearch.Client
	GCS    *storage.Client
	Rabbit *helpers.RabbitPublisher

	Tokens     *helpers.TokenIssuer
	Hasher     *helpers.PasswordHasher
	Cookies    *helpers.CookieManager
	Dispatcher *eventbus.Dispatcher
	Store      *pginfra.Store
	Profiles   *pginfra.ProfileQuery
	Directory  *search.UserDirectory
	Cache      *cache.ProfileCache
	Service    *application.Service

	closers []func()
}

// New connects to every backing service and wires the application. Search,
// email and the audit archive are optional: when their backend is not
// configured or not reachable they are left out and a warning is logged.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
		MaxConnIdleTime: cfg.DBMaxConnIdle,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.Pool = pool
	c.closers = append(c.closers, pool.Close)

	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	c.closers = append(c.closers, func() { _ = c.Redis.Close() })

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			c.ES = es
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("audit archive disabled")
		} else {
			c.GCS = gcs
			c.closers = append(c.closers, func() { _ = gcs.Close() })
		}
	}

	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("email notifications disabled")
		} else {
			c.Rabbit = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	c.Tokens, err = helpers.NewTokenIssuer(cfg.TokenSettings())
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Hasher = helpers.NewPasswordHasher(cfg.PasswordIterations)
	c.Cookies = helpers.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure)
	c.Directory = search.NewUserDirectory(c.ES, cfg.ESUsersIndex, logger)
	if err := c.Directory.EnsureIndex(ctx); err != nil {
		logger.WithError(err).Warn("user directory index not ready")
	}
	c.Cache = cache.NewProfileCache(c.Redis, cfg.ProfileCacheTTL)

	c.Dispatcher = eventbus.NewDispatcher(logger)
	c.subscribe()

	c.Store = pginfra.NewStore(pool, pginfra.NewTxRunner(pool), c.Dispatcher, pginfra.NewDeadLetterStore(pool), logger)
	c.Profiles = pginfra.NewProfileQuery(pool)

	c.Service, err = application.NewService(application.ServiceDeps{
		Users:    c.Store,
		Profiles: c.Profiles,
		Hasher:   c.Hasher,
		Tokens:   c.Tokens,
		Cache:    c.Cache,
		Search:   c.Directory,
		Logger:   logger,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) subscribe() {
	d := c.Dispatcher
	d.Subscribe("search_indexer", eventbus.NewSearchIndexer(c.Directory),
		entity.EventUserRegistered, entity.EventUserDeactivated)
	d.Subscribe("profile_cache", eventbus.NewCacheInvalidator(c.Cache), entity.EventUserDeactivated)

	if c.Rabbit != nil {
		branding := mailtpl.Branding{
			CompanyName: c.Config.CompanyName,
			AppName:     c.Config.AppName,
			SupportURL:  c.Config.SupportURL,
			LoginURL:    c.Config.LoginURL,
		}
		d.Subscribe("email_notifier", eventbus.NewEmailNotifier(c.Rabbit, branding),
			entity.EventUserRegistered, entity.EventUserDeactivated)
	}
	if c.GCS != nil {
		bucket := helpers.NewGCSBucket(c.GCS, c.Config.GCSBucket)
		d.Subscribe("audit_archiver", eventbus.NewAuditArchiver(bucket, ""),
			entity.EventUserRegistered, entity.EventUserDeactivated)
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
