package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/shelvinliu/banlogger-bot-sub000/internal/config"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/enums"
	clockinfra "github.com/shelvinliu/banlogger-bot-sub000/internal/infra/clock"
	s3infra "github.com/shelvinliu/banlogger-bot-sub000/internal/infra/s3"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/infra/telegram"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/repo/postgres"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/repo/xlsx"
	auditsvc "github.com/shelvinliu/banlogger-bot-sub000/internal/services/audit"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/services/flow"
)

// Gateway is the slice of the Telegram client the controller needs.
type Gateway interface {
	BotID() int64
	BanMember(chatID, userID int64) error
	RestrictMember(chatID, userID int64, canSend bool, untilUnix int64) error
	RoleOf(chatID, userID int64) (enums.ChatRole, error)
	SendText(chatID int64, text string) (int, error)
	SendInline(chatID int64, text string, rows [][]telegram.InlineButton) (int, error)
	SendDocument(chatID int64, filename string, data []byte, caption string) error
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID, text string, alert bool) error
}

type Clock interface {
	Now() time.Time
	Stamp() string
}

type Scheduler interface {
	After(d time.Duration, task func() error)
}

type Archiver interface {
	Archive(ctx context.Context, key string, data []byte) error
}

type App struct {
	logger *slog.Logger

	gw      Gateway
	clock   Clock
	sched   Scheduler
	flows   *flow.Store
	audit   *auditsvc.Service
	archive Archiver

	autoDelete time.Duration
	exportName string

	db *sql.DB
	tg *telegram.Client
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	clk, err := clockinfra.New(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("create clock: %w", err)
	}

	db, err := postgres.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Warn("postgres unavailable, continuing without mirror", "error", err)
		db = nil
	}

	var archive Archiver
	if cfg.IsArchiveEnabled() {
		uploader, err := s3infra.NewUploader(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			logger.Warn("s3 uploader unavailable, exports will not be archived", "error", err)
		} else {
			archive = uploader
		}
	}

	app := &App{
		logger:     logger,
		clock:      clk,
		sched:      clockinfra.NewScheduler(logger, 64),
		flows:      flow.NewStore(cfg.PendingKickTTL()),
		audit:      auditsvc.NewService(xlsx.NewAuditRepo(cfg.AuditFile), postgres.NewKickEventsRepo(db), logger),
		archive:    archive,
		autoDelete: cfg.AutoDeleteDelay(),
		exportName: filepath.Base(cfg.AuditFile),
		db:         db,
	}

	app.tg, err = telegram.NewClient(cfg.BotToken, cfg.PollTimeoutSeconds, logger, app.routeUpdate)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("create telegram client: %w", err)
	}
	app.gw = app.tg

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	defer a.close()
	return a.tg.Start(ctx)
}

func (a *App) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("close postgres", "error", err)
		}
	}
}
