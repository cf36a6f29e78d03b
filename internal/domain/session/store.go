package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// AuthAPI is the identity endpoint surface the store depends on.
// This interface is defined in the domain to avoid circular imports.
// Implementations: dummyjson client (prod), fakes (test).
type AuthAPI interface {
	// Login exchanges credentials for a profile and bearer token.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Me fetches the extended profile for the current bearer token.
	Me(ctx context.Context) (*Profile, error)
}

// RecordStore persists the session across runs. Two separate keys: the
// combined session record, and the raw token alone for outbound request
// header injection.
type RecordStore interface {
	SaveSession(rec *Record) error
	LoadSession() (*Record, error)
	ClearSession() error
	WriteToken(token string) error
	ClearToken() error
}

// Store owns the session state and its mutation surface. Views read
// snapshots and subscribe for change notifications; all mutation goes
// through the action methods. Safe for concurrent use.
//
// Every network-backed action carries a monotonic sequence number. A
// completion whose sequence is no longer the latest issued is discarded,
// so a slow stale response cannot overwrite newer state.
type Store struct {
	api      AuthAPI
	records  RecordStore
	logger   *slog.Logger
	validate *validator.Validate

	mu        sync.Mutex
	state     State
	seq       uint64
	listeners map[int]func(State)
	nextID    int
}

// NewStore creates an empty, anonymous session store.
// Call Restore to rehydrate a persisted session.
func NewStore(api AuthAPI, records RecordStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:       api,
		records:   records,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		listeners: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to be called with a state snapshot after every
// state change. The returned cancel function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Login exchanges credentials at the identity endpoint. On success the
// profile and token replace the session atomically and are persisted to
// local storage. On failure the previous user/token are left untouched,
// the error field is set to a human-readable message, and the error is
// returned so the caller can keep its form in an error state. The store
// never retries on its own.
func (s *Store) Login(ctx context.Context, username, password string) error {
	seq := s.begin()

	res, err := s.api.Login(ctx, username, password)
	if err == nil {
		// Validate the response shape before committing anything to
		// session state; the remote identity fields are not trusted as-is.
		if verr := s.validate.Struct(res); verr != nil {
			err = fmt.Errorf("malformed login response: %w", verr)
		}
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale login completion", "seq", seq)
		return err
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err.Error()
		notify := s.pendingNotifyLocked()
		s.mu.Unlock()
		notify()
		s.logger.Warn("login failed", "username", username, "error", err)
		return err
	}

	user := res.User
	s.state.User = &user
	s.state.Token = res.Token
	s.state.Err = ""
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()

	s.persist(&user, res.Token)
	s.logger.Info("login succeeded", "username", user.Username, "user_id", user.ID)
	return nil
}

// Logout clears the session in memory and in durable storage.
// Always succeeds and is idempotent; storage failures are logged only.
func (s *Store) Logout() {
	s.mu.Lock()
	s.seq++ // invalidate any in-flight login/profile completion
	s.state = State{}
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()

	if s.records != nil {
		if err := s.records.ClearSession(); err != nil {
			s.logger.Warn("failed to clear session record", "error", err)
		}
		if err := s.records.ClearToken(); err != nil {
			s.logger.Warn("failed to clear token mirror", "error", err)
		}
	}
	s.logger.Info("logged out")
}

// Restore rehydrates the session from durable storage. If a well-formed
// record is present the session is treated as authenticated without server
// re-validation until the first privileged request; otherwise the store
// stays anonymous. Returns whether a session was restored.
func (s *Store) Restore() bool {
	if s.records == nil {
		return false
	}
	rec, err := s.records.LoadSession()
	if err != nil {
		s.logger.Warn("failed to load session record, starting anonymous", "error", err)
		return false
	}
	if rec == nil || rec.Token == "" {
		return false
	}
	if err := s.validate.Struct(&rec.User); err != nil {
		s.logger.Warn("persisted session record is malformed, starting anonymous", "error", err)
		return false
	}

	s.mu.Lock()
	user := rec.User
	s.state.User = &user
	s.state.Token = rec.Token
	s.state.Err = ""
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()

	s.logger.Debug("session restored", "username", rec.User.Username, "saved_at", rec.SavedAt)
	return true
}

// Profile fetches the extended profile from the privileged profile
// endpoint and replaces the session user on success. This is the first
// point where a restored token is validated against the server.
func (s *Store) Profile(ctx context.Context) (*Profile, error) {
	s.mu.Lock()
	token := s.state.Token
	s.mu.Unlock()
	if token == "" {
		return nil, fmt.Errorf("not logged in")
	}

	seq := s.begin()
	profile, err := s.api.Me(ctx)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale profile completion", "seq", seq)
		return profile, err
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err.Error()
		notify := s.pendingNotifyLocked()
		s.mu.Unlock()
		notify()
		return nil, err
	}

	user := *profile
	s.state.User = &user
	s.state.Err = ""
	token = s.state.Token
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()

	s.persist(&user, token)
	out := user
	return &out, nil
}

// begin starts a network-backed action: bumps the fence sequence, raises
// the loading flag, and clears the previous error.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.Loading = true
	s.state.Err = ""
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()
	return seq
}

// persist writes the combined record and the token mirror. Storage
// failures leave the in-memory session intact and are logged only.
func (s *Store) persist(user *Profile, token string) {
	if s.records == nil {
		return
	}
	rec := &Record{User: *user, Token: token, SavedAt: time.Now().UTC()}
	if err := s.records.SaveSession(rec); err != nil {
		s.logger.Warn("failed to persist session record", "error", err)
	}
	if err := s.records.WriteToken(token); err != nil {
		s.logger.Warn("failed to persist token mirror", "error", err)
	}
}

// pendingNotifyLocked snapshots the state and listener set while mu is
// held and returns a closure to run after unlock, so listener callbacks
// can call Snapshot or Subscribe without deadlocking.
func (s *Store) pendingNotifyLocked() func() {
	if len(s.listeners) == 0 {
		return func() {}
	}
	snap := s.state.clone()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		user := *s.User
		if s.User.Address != nil {
			addr := *s.User.Address
			user.Address = &addr
		}
		out.User = &user
	}
	return out
}
