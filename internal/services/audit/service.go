package audit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/model"
)

var ErrStoreMissing = errors.New("audit store is not initialized")

type Repo interface {
	Append(context.Context, model.KickEvent) error
	Snapshot(context.Context) ([]byte, error)
}

type Mirror interface {
	Save(context.Context, model.KickEvent) error
}

// Service owns the kick audit log. The file repo is authoritative; the
// mirror is best-effort and its failures are only logged.
type Service struct {
	repo   Repo
	mirror Mirror
	logger *slog.Logger
}

func NewService(repo Repo, mirror Mirror, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, mirror: mirror, logger: logger}
}

func (s *Service) Append(ctx context.Context, event model.KickEvent) error {
	if s.repo == nil {
		return nil
	}

	if err := s.repo.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit row: %w", err)
	}

	if s.mirror != nil {
		if err := s.mirror.Save(ctx, event); err != nil {
			s.logger.Warn("mirror kick event", "error", err, "chat", event.ChatTitle)
		}
	}
	return nil
}

func (s *Service) Snapshot(ctx context.Context) ([]byte, error) {
	if s.repo == nil {
		return nil, ErrStoreMissing
	}

	data, err := s.repo.Snapshot(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrStoreMissing
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot audit store: %w", err)
	}
	return data, nil
}
