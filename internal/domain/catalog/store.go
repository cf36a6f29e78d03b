package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// DefaultLimit is the page size used when the caller does not specify one.
const DefaultLimit = 10

// API is the product endpoint surface the store depends on.
// This interface is defined in the domain to avoid circular imports.
// Implementations: dummyjson client (prod), fakes (test).
type API interface {
	Products(ctx context.Context, limit, skip int) (*Page, error)
	SearchProducts(ctx context.Context, query string) (*Page, error)
	Product(ctx context.Context, id int) (*Product, error)
	Categories(ctx context.Context) ([]Category, error)
}

// Store owns the catalog page, the selected product, and the pagination
// cursor. Every successful fetch fully replaces its slice of state; a
// failed fetch leaves the previous successful slice intact and only sets
// the error field. Safe for concurrent use.
//
// Three independent fence sequences guard the page slice (list/search),
// the detail slice (selected product), and the category index: a
// completion that is no longer the latest issued for its slice is
// discarded rather than overwriting newer state.
type Store struct {
	api          API
	logger       *slog.Logger
	defaultLimit int

	mu        sync.Mutex
	state     State
	pageSeq   uint64
	detailSeq uint64
	catSeq    uint64
	listeners map[int]func(State)
	nextID    int
}

// NewStore creates an empty catalog store. defaultLimit is the page size
// used when a fetch does not specify one; values < 1 fall back to
// DefaultLimit.
func NewStore(api API, defaultLimit int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	return &Store{
		api:          api,
		logger:       logger,
		defaultLimit: defaultLimit,
		state:        State{Limit: defaultLimit},
		listeners:    make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current catalog state.
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

// List fetches one page of the full catalog and replaces the page slice
// from the response. The active search term is cleared; pages are never
// merged or accumulated.
func (s *Store) List(ctx context.Context, limit, skip int) error {
	if limit < 1 {
		limit = s.defaultLimit
	}
	if skip < 0 {
		skip = 0
	}

	seq := s.beginPage()
	page, err := s.api.Products(ctx, limit, skip)
	return s.commitPage(seq, page, "", err)
}

// Search queries the search endpoint and replaces the page slice from the
// response, recording term as the active search term. An empty or
// whitespace-only term resets back to the full catalog with default
// paging.
func (s *Store) Search(ctx context.Context, term string) error {
	if strings.TrimSpace(term) == "" {
		return s.List(ctx, s.defaultLimit, 0)
	}

	seq := s.beginPage()
	page, err := s.api.SearchProducts(ctx, term)
	return s.commitPage(seq, page, term, err)
}

// Get fetches a single product by id and replaces the selected product
// only; the page list is untouched.
func (s *Store) Get(ctx context.Context, id int) (*Product, error) {
	s.mu.Lock()
	s.detailSeq++
	seq := s.detailSeq
	s.state.Loading = true
	s.state.Err = ""
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()

	product, err := s.api.Product(ctx, id)

	s.mu.Lock()
	if seq != s.detailSeq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale product detail", "id", id, "seq", seq)
		return product, err
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err.Error()
		notify := s.pendingNotifyLocked()
		s.mu.Unlock()
		notify()
		return nil, err
	}
	sel := *product
	s.state.Selected = &sel
	s.state.Err = ""
	notify = s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()

	out := sel
	return &out, nil
}

// LoadCategories fetches the category index and replaces the Categories
// slice. The page and detail slices are untouched.
func (s *Store) LoadCategories(ctx context.Context) error {
	s.mu.Lock()
	s.catSeq++
	seq := s.catSeq
	s.state.Loading = true
	s.state.Err = ""
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()

	cats, err := s.api.Categories(ctx)

	s.mu.Lock()
	if seq != s.catSeq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale category index", "seq", seq)
		return err
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err.Error()
		notify := s.pendingNotifyLocked()
		s.mu.Unlock()
		notify()
		return err
	}
	s.state.Categories = cats
	s.state.Err = ""
	notify = s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// SetSkip moves the pagination cursor without any network call. The view
// observes the change and triggers the corresponding fetch.
func (s *Store) SetSkip(skip int) {
	if skip < 0 {
		skip = 0
	}
	s.mu.Lock()
	s.state.Skip = skip
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()
}

// beginPage starts a page-slice fetch: bumps the page fence, raises the
// loading flag, and clears the previous error.
func (s *Store) beginPage() uint64 {
	s.mu.Lock()
	s.pageSeq++
	seq := s.pageSeq
	s.state.Loading = true
	s.state.Err = ""
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()
	return seq
}

// commitPage applies a page-slice completion. Stale completions are
// discarded; failures keep the previous page intact (stale-on-error) and
// set only the error field.
func (s *Store) commitPage(seq uint64, page *Page, query string, err error) error {
	s.mu.Lock()
	if seq != s.pageSeq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale page", "seq", seq, "query", query)
		return err
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err.Error()
		notify := s.pendingNotifyLocked()
		s.mu.Unlock()
		notify()
		s.logger.Warn("page fetch failed", "query", query, "error", err)
		return err
	}

	s.state.Items = page.Products
	s.state.Total = page.Total
	s.state.Skip = page.Skip
	s.state.Limit = page.Limit
	s.state.Query = query
	s.state.Err = ""
	notify := s.pendingNotifyLocked()
	s.mu.Unlock()
	notify()

	s.logger.Debug("page replaced",
		"items", len(page.Products), "total", page.Total,
		"skip", page.Skip, "limit", page.Limit, "query", query)
	return nil
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
