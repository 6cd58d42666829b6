package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/izniy/NexusBook/common"
	"github.com/izniy/NexusBook/common/model"
)

// Upstream fetches a batch of contacts from the external source.
type Upstream interface {
	FetchBatch(ctx context.Context, count int) ([]model.Contact, error)
}

// State is the population state of the directory.
type State int32

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

const loadKey = "directory"

// Service serves merged, paginated views of the upstream directory. The
// snapshot is fetched lazily on the first read and at most one fetch is in
// flight at a time; favorite flags live in the overlay and survive reloads.
type Service struct {
	upstream  Upstream
	cache     *EntityCache
	overlay   *OverlayStore
	batchSize int
	logger    *slog.Logger
	metrics   *common.Metrics

	group   singleflight.Group
	loading atomic.Bool
}

// Option configures a Service.
type Option func(*Service)

// WithBatchSize sets how many records each upstream fetch asks for.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics sink. nil disables metrics.
func WithMetrics(m *common.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCache injects the entity cache.
func WithCache(c *EntityCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithOverlay injects the overlay store.
func WithOverlay(o *OverlayStore) Option {
	return func(s *Service) {
		if o != nil {
			s.overlay = o
		}
	}
}

// NewService constructs a Service backed by upstream.
func NewService(upstream Upstream, opts ...Option) *Service {
	s := &Service{
		upstream:  upstream,
		cache:     NewEntityCache(),
		overlay:   NewOverlayStore(),
		batchSize: common.DefaultBatchSize,
		logger:    common.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports whether the directory is unloaded, loading or loaded.
func (s *Service) State() State {
	if s.loading.Load() {
		return StateLoading
	}
	if s.cache.IsEmpty() {
		return StateUnloaded
	}
	return StateLoaded
}

// Merge combines a contact with its favorite flag.
func Merge(c model.Contact, favorite bool) model.ContactView {
	return model.ContactView{Contact: c, IsFavorite: favorite}
}

// List returns every contact in fetch order with favorites merged in.
func (s *Service) List(ctx context.Context) ([]model.ContactView, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.merge(s.cache.All()), nil
}

// Get returns one contact by id.
func (s *Service) Get(ctx context.Context, id string) (model.ContactView, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return model.ContactView{}, err
	}
	c, ok := s.cache.Find(id)
	if !ok {
		return model.ContactView{}, &NotFoundError{ID: id}
	}
	return Merge(c, s.overlay.Get(id)), nil
}

// Paginate returns the requested page. The page number is clamped into
// [1, max(totalPages, 1)] rather than rejected; limit must be positive.
func (s *Service) Paginate(ctx context.Context, page, limit int) (model.Page, error) {
	if limit < 1 {
		return model.Page{}, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return model.Page{}, err
	}

	all := s.cache.All()
	total := len(all)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	current := clamp(page, 1, max(totalPages, 1))

	// current <= totalPages keeps start within total
	start := min((current-1)*limit, total)
	end := start + min(limit, total-start)
	return model.Page{
		Contacts:    s.merge(all[start:end]),
		TotalPages:  totalPages,
		CurrentPage: current,
	}, nil
}

// ToggleFavorite flips the favorite flag of one contact and returns the
// merged result. It never triggers a refetch of an already loaded directory.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (model.ContactView, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return model.ContactView{}, err
	}
	c, ok := s.cache.Find(id)
	if !ok {
		return model.ContactView{}, &NotFoundError{ID: id}
	}
	favorite := s.overlay.Toggle(id)
	s.metrics.ObserveToggle()
	s.logger.Debug("favorite toggled", "id", id, "favorite", favorite)
	return Merge(c, favorite), nil
}

// Refresh refetches the directory through the same gate as the lazy load.
// On failure the previous snapshot stays in place. Favorite flags are kept
// for every id, including ids the new batch no longer contains.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	for {
		res, err := s.load(ctx, true)
		if err != nil {
			return 0, err
		}
		if res.fetched {
			return res.total, nil
		}
		// joined a lazy load that found the cache populated; fetch again
	}
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	if !s.cache.IsEmpty() {
		return nil
	}
	_, err := s.load(ctx, false)
	return err
}

type loadResult struct {
	fetched bool
	total   int
}

// load runs a fetch, or joins the one in flight. The fetch itself is
// detached from ctx so one caller giving up does not fail the others;
// ctx only bounds how long this caller waits.
func (s *Service) load(ctx context.Context, force bool) (loadResult, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(loadKey, func() (interface{}, error) {
		if !force && !s.cache.IsEmpty() {
			return loadResult{total: s.cache.Len()}, nil
		}
		return s.fetch(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return loadResult{}, res.Err
		}
		return res.Val.(loadResult), nil
	case <-ctx.Done():
		return loadResult{}, fmt.Errorf("waiting for directory load: %w", ctx.Err())
	}
}

func (s *Service) fetch(ctx context.Context) (loadResult, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	start := time.Now()
	s.logger.Info("loading directory", "batch_size", s.batchSize)

	contacts, err := s.upstream.FetchBatch(ctx, s.batchSize)
	if err != nil {
		s.metrics.ObserveLoad(0, err)
		s.logger.Error("directory load failed", "error", err, "duration", time.Since(start))
		return loadResult{}, err
	}

	n := s.cache.Replace(contacts)
	s.metrics.ObserveLoad(n, nil)
	if n != len(contacts) {
		s.logger.Warn("dropped duplicate contact ids", "received", len(contacts), "kept", n)
	}
	s.logger.Info("directory loaded", "contacts", n, "duration", time.Since(start))
	return loadResult{fetched: true, total: n}, nil
}

func (s *Service) merge(contacts []model.Contact) []model.ContactView {
	views := make([]model.ContactView, len(contacts))
	for i, c := range contacts {
		views[i] = Merge(c, s.overlay.Get(c.ID))
	}
	return views
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
