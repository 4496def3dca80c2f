package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sgarg26/intelli-alert/internal/platform/auth"
	"github.com/sgarg26/intelli-alert/internal/platform/remote"
)

// Pusher is the slice of the remote sync client the service needs.
type Pusher interface {
	Push(ctx context.Context, userID string, payload any) *remote.Result
	PushAsync(ctx context.Context, userID string, payload any) <-chan *remote.Result
}

// UserIDFunc resolves the current session's user ID. It returns "" when
// nobody is signed in, which degrades saves to local-only.
type UserIDFunc func() string

// Service coordinates the session store, local persistence, and remote sync.
// Local persistence is the source of truth: Save writes locally first and
// only then hands the snapshot to the sync client, so local state is always
// at least as fresh as anything the backend has seen.
type Service struct {
	store  *Store
	repo   Repository
	pusher Pusher
	userID UserIDFunc
	logger zerolog.Logger

	mu       sync.Mutex
	lastSync *remote.Result
}

func NewService(store *Store, repo Repository, pusher Pusher, userID UserIDFunc, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		repo:   repo,
		pusher: pusher,
		userID: userID,
		logger: logger.With().Str("component", "profile-service").Logger(),
	}
}

// Store exposes the session store for direct editing.
func (s *Service) Store() *Store {
	return s.store
}

// Load populates the session store from local persistence. When nothing
// usable is stored the store is reset to a default profile; that is a normal
// first run, not an error.
func (s *Service) Load(ctx context.Context) error {
	p, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoProfile) {
			s.logger.Info().Msg("no stored profile, starting fresh")
			return s.store.Replace(NewProfile())
		}
		return fmt.Errorf("load profile: %w", err)
	}
	return s.store.Replace(p)
}

// Save persists the current snapshot locally and, on success, kicks off a
// fire-and-forget push to the backend. The returned error reflects only the
// local write; the remote outcome lands in LastSyncResult when the push
// completes. With no signed-in user the push is still issued and the sync
// client records it as not sent.
func (s *Service) Save(ctx context.Context) error {
	snap := s.store.Snapshot()
	if err := s.repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	// The push must outlive the request that triggered the save.
	ch := s.pusher.PushAsync(context.WithoutCancel(ctx), s.resolveUserID(ctx), snap)
	go func() {
		if res := <-ch; res != nil {
			s.recordSync(res)
		}
	}()
	return nil
}

// PushNow pushes the stored profile synchronously and returns the outcome.
// Used by the operator CLI; the interactive flow goes through Save.
func (s *Service) PushNow(ctx context.Context) (*remote.Result, error) {
	p, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	res := s.pusher.Push(ctx, s.resolveUserID(ctx), p)
	s.recordSync(res)
	return res, nil
}

// resolveUserID picks the user the push runs as. An identity authenticated on
// the request itself wins over the agent's session identity.
func (s *Service) resolveUserID(ctx context.Context) string {
	if id, ok := auth.IdentityFromContext(ctx); ok && id.ID != "" {
		return id.ID
	}
	return s.userID()
}

// LastSyncResult returns the most recently completed push outcome, or nil
// when no push has finished yet.
func (s *Service) LastSyncResult() *remote.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

func (s *Service) recordSync(res *remote.Result) {
	s.mu.Lock()
	s.lastSync = res
	s.mu.Unlock()
}
