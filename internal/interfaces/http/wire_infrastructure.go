package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/domain/notification"
	"github.com/civictrack/civictrack/internal/infrastructure/config"
	"github.com/civictrack/civictrack/internal/infrastructure/directory"
	"github.com/civictrack/civictrack/internal/infrastructure/email"
	"github.com/civictrack/civictrack/internal/infrastructure/lock"
	notificationInfra "github.com/civictrack/civictrack/internal/infrastructure/notification"
	"github.com/civictrack/civictrack/internal/infrastructure/persistence/seeds"
	"github.com/civictrack/civictrack/internal/infrastructure/pubsub"
	"github.com/civictrack/civictrack/internal/infrastructure/repository"
	"github.com/civictrack/civictrack/internal/infrastructure/storage"
	"github.com/civictrack/civictrack/internal/shared/db"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// repositories holds the repository instances used by the application.
type repositories struct {
	complaintRepo *repository.ComplaintRepository
	officerRepo   *repository.OfficerRepository
	transactor    *db.Transactor
}

// infrastructure carries the adapters built in section 1 into section 2.
type infrastructure struct {
	media  usecases.MediaStore
	sink   notification.Sink
	locker usecases.Locker
}

func (c *Container) initInfrastructure(ctx context.Context) (*infrastructure, error) {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled() {
		client, err := initRedis(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		c.redis = client
	} else {
		log.Infow("redis not configured, running single-instance mode")
	}

	c.repos = newRepositories(c.db)

	reference, err := directory.Load(cfg.ReferenceData.Path, log)
	if err != nil {
		return nil, err
	}
	c.reference = reference

	// The reference file is the source of truth for who the officers are.
	if len(reference.Officers) > 0 {
		if _, err := seeds.SeedOfficers(ctx, c.repos.officerRepo, reference.Officers, log); err != nil {
			return nil, err
		}
	}

	media, err := storage.New(ctx, cfg.Media, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	return &infrastructure{
		media:  media,
		sink:   c.newNotificationSink(),
		locker: c.newLocker(),
	}, nil
}

// initRedis creates the Redis client and checks the connection.
func initRedis(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// newRepositories creates the repository instances from the database connection.
func newRepositories(conn *gorm.DB) *repositories {
	return &repositories{
		complaintRepo: repository.NewComplaintRepository(conn),
		officerRepo:   repository.NewOfficerRepository(conn),
		transactor:    db.NewTransactor(conn),
	}
}

// newNotificationSink always logs. The Redis bus and the supervisor mailer
// join the fan-out when they are configured.
func (c *Container) newNotificationSink() notification.Sink {
	sinks := []notification.Sink{notificationInfra.NewLogSink(logger.WithComponent("notification"))}

	if c.redis != nil {
		sinks = append(sinks, pubsub.NewRedisNotificationBus(c.redis, c.cfg.Notification.RedisChannel, c.log))
	}

	if c.cfg.Notification.SupervisorAddress != "" {
		mail := c.cfg.Notification.Email
		sinks = append(sinks, email.NewEscalationMailer(email.SMTPConfig{
			Host:        mail.SMTPHost,
			Port:        mail.SMTPPort,
			Username:    mail.SMTPUser,
			Password:    mail.SMTPPassword,
			FromAddress: mail.FromAddress,
			FromName:    mail.FromName,
		}, c.cfg.Notification.SupervisorAddress, c.log))
	}

	fanout := notificationInfra.NewFanoutSink(sinks...)
	c.log.Infow("notification sinks configured", "count", fanout.Len())
	return fanout
}

func (c *Container) newLocker() usecases.Locker {
	if c.redis != nil {
		return lock.NewRedisLocker(c.redis, c.log)
	}
	return lock.NewLocalLocker()
}
