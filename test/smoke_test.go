package test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/model"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/repo/xlsx"
	auditsvc "github.com/shelvinliu/banlogger-bot-sub000/internal/services/audit"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/services/flow"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/services/moderation"
)

type stubMirror struct {
	called int
	last   model.KickEvent
	err    error
}

func (s *stubMirror) Save(_ context.Context, event model.KickEvent) error {
	s.called++
	s.last = event
	return s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuditAppendAndSnapshot(t *testing.T) {
	mirror := &stubMirror{}
	repo := xlsx.NewAuditRepo(filepath.Join(t.TempDir(), "ban_records.xlsx"))
	svc := auditsvc.NewService(repo, mirror, quietLogger())

	if _, err := svc.Snapshot(context.Background()); !errors.Is(err, auditsvc.ErrStoreMissing) {
		t.Fatalf("expected ErrStoreMissing before the first append, got %v", err)
	}

	event := model.KickEvent{
		Time:            "2026-03-02 08:30:05",
		ChatTitle:       "Group X",
		TargetDisplay:   "bob",
		OperatorDisplay: "A_name",
		Reason:          "Ads",
	}
	if err := svc.Append(context.Background(), event); err != nil {
		t.Fatalf("append: %v", err)
	}
	if mirror.called != 1 || mirror.last != event {
		t.Fatalf("mirror not invoked with the event: %+v", mirror)
	}

	data, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer file.Close()
	rows, err := file.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][4] != "Ads" {
		t.Fatalf("unexpected workbook contents: %v", rows)
	}
}

func TestAuditMirrorFailureIsNotFatal(t *testing.T) {
	mirror := &stubMirror{err: errors.New("db down")}
	repo := xlsx.NewAuditRepo(filepath.Join(t.TempDir(), "ban_records.xlsx"))
	svc := auditsvc.NewService(repo, mirror, quietLogger())

	err := svc.Append(context.Background(), model.KickEvent{
		Time: "2026-03-02 08:30:05", ChatTitle: "G", TargetDisplay: "t", OperatorDisplay: "o", Reason: "FUD",
	})
	if err != nil {
		t.Fatalf("mirror failure must not fail the append: %v", err)
	}
}

func TestKickFlowEndToEnd(t *testing.T) {
	store := flow.NewStore(time.Minute)

	token := store.PutKick(100, model.PendingKick{OperatorID: 1, TargetID: 42, TargetDisplay: "bob", ChatTitle: "Group X"})
	pending, ok := store.KickByToken(100, token)
	if !ok || pending.TargetDisplay != "bob" {
		t.Fatalf("expected pending kick back, got %+v ok=%v", pending, ok)
	}

	store.DeleteKick(100, token)
	if _, ok := store.KickByToken(100, token); ok {
		t.Fatal("consumed token must not resolve again")
	}

	store.PutCustom(1, model.PendingCustomReason{ChatID: 100, TargetDisplay: "bob", ChatTitle: "Group X", OperatorDisplay: "A_name"})
	if _, ok := store.CustomByOperator(1); !ok {
		t.Fatal("expected pending custom reason for the operator")
	}
	store.DeleteCustom(1)
	if _, ok := store.CustomByOperator(1); ok {
		t.Fatal("custom reason must be gone after delete")
	}
}

func TestMuteDurationSmoke(t *testing.T) {
	d, err := moderation.ParseDuration("1d 2h")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := moderation.FormatDuration(d); got != "1d 2h 0m" {
		t.Fatalf("unexpected format: %q", got)
	}
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if until := moderation.MuteUntil(base, d); until != base.Unix()+93600 {
		t.Fatalf("unexpected until: %d", until)
	}
}
