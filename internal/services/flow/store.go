package flow

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/model"
)

// Store holds the in-memory moderation flow state: at most one PendingKick
// per chat and at most one PendingCustomReason per operator, both last-write-
// wins. Nothing survives a restart.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	kicks  map[int64]model.PendingKick
	custom map[int64]model.PendingCustomReason
}

func NewStore(ttl time.Duration) *Store {
	return newStore(ttl, time.Now)
}

func newStore(ttl time.Duration, now func() time.Time) *Store {
	return &Store{
		ttl:    ttl,
		now:    now,
		kicks:  make(map[int64]model.PendingKick),
		custom: make(map[int64]model.PendingCustomReason),
	}
}

// PutKick stores the chat's pending kick, replacing any prior one, and
// returns the token its reason buttons must carry.
func (s *Store) PutKick(chatID int64, pending model.PendingKick) string {
	pending.Token = newToken()
	pending.CreatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.kicks[chatID] = pending
	return pending.Token
}

// KickByToken resolves a reason-button token against the chat's live pending
// kick. An expired record is dropped on sight.
func (s *Store) KickByToken(chatID int64, token string) (model.PendingKick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.kicks[chatID]
	if !ok || pending.Token != token {
		return model.PendingKick{}, false
	}
	if s.ttl > 0 && s.now().Sub(pending.CreatedAt) > s.ttl {
		delete(s.kicks, chatID)
		return model.PendingKick{}, false
	}
	return pending, true
}

// DeleteKick consumes the pending kick, but only if the token still matches:
// a newer /kick must not be clobbered by a stale button.
func (s *Store) DeleteKick(chatID int64, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pending, ok := s.kicks[chatID]; ok && pending.Token == token {
		delete(s.kicks, chatID)
	}
}

func (s *Store) PutCustom(operatorID int64, pending model.PendingCustomReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom[operatorID] = pending
}

func (s *Store) CustomByOperator(operatorID int64) (model.PendingCustomReason, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.custom[operatorID]
	return pending, ok
}

func (s *Store) DeleteCustom(operatorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.custom, operatorID)
}

func newToken() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// a time-derived token keeps the flow usable.
		return hex.EncodeToString([]byte(time.Now().Format("150405.000")))[:8]
	}
	return hex.EncodeToString(b[:])
}
