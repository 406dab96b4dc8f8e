// Package store caches registrar reference data (promotions, academic
// years, student lists and minervals) for the lifetime of a CLI session.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/student"
)

// DefaultExpiry is the configured cache lifetime unless overridden.
const DefaultExpiry = 5 * time.Minute

// Source is the subset of the registrar API the store reads from.
type Source interface {
	Promotions(ctx context.Context) ([]api.Promotion, error)
	Annees(ctx context.Context) ([]api.Annee, error)
	Students(ctx context.Context, promotionID string) ([]student.Record, error)
	Minerval(ctx context.Context, promotionID string) (*api.Minerval, error)
}

var _ Source = (*api.Client)(nil)

type Config struct {
	Log    *zap.Logger
	Source Source

	// Expiry is how long a fetched value is reused. Zero keeps values
	// until they are invalidated.
	Expiry time.Duration
}

type entry struct {
	mu      sync.Mutex
	value   any
	updated time.Time
}

type Store struct {
	log    *zap.Logger
	source Source
	expiry time.Duration

	mu    sync.Mutex
	cache map[string]*entry

	now func() time.Time
}

func New(config Config) (*Store, error) {
	switch {
	case config.Log == nil:
		return nil, errs.New("log is required")
	case config.Source == nil:
		return nil, errs.New("source is required")
	}
	if config.Expiry < 0 {
		return nil, errs.New("expiry must not be negative")
	}
	return &Store{
		log:    config.Log,
		source: config.Source,
		expiry: config.Expiry,
		cache:  make(map[string]*entry),
		now:    time.Now,
	}, nil
}

const (
	keyPromotions = "promotions"
	keyAnnees     = "annees"
)

// StudentsKey is the cache key of the student list of a promotion. The
// empty promotion stands for every student.
func StudentsKey(promotionID string) string { return "students:" + promotionID }

func MinervalKey(promotionID string) string { return "minerval:" + promotionID }

func (s *Store) Promotions(ctx context.Context) ([]api.Promotion, error) {
	return get(ctx, s, keyPromotions, s.source.Promotions)
}

func (s *Store) Annees(ctx context.Context) ([]api.Annee, error) {
	return get(ctx, s, keyAnnees, s.source.Annees)
}

func (s *Store) Students(ctx context.Context, promotionID string) ([]student.Record, error) {
	return get(ctx, s, StudentsKey(promotionID), func(ctx context.Context) ([]student.Record, error) {
		return s.source.Students(ctx, promotionID)
	})
}

func (s *Store) Minerval(ctx context.Context, promotionID string) (*api.Minerval, error) {
	return get(ctx, s, MinervalKey(promotionID), func(ctx context.Context) (*api.Minerval, error) {
		return s.source.Minerval(ctx, promotionID)
	})
}

// Promotion looks a promotion up by id. It returns nil when there is no
// such promotion.
func (s *Store) Promotion(ctx context.Context, id string) (*api.Promotion, error) {
	promotions, err := s.Promotions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range promotions {
		if promotions[i].ID == id {
			return &promotions[i], nil
		}
	}
	return nil, nil
}

func (s *Store) Annee(ctx context.Context, id string) (*api.Annee, error) {
	annees, err := s.Annees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range annees {
		if annees[i].ID == id {
			return &annees[i], nil
		}
	}
	return nil, nil
}

// Invalidate drops the given keys so the next read refetches them.
func (s *Store) Invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.cache, key)
	}
	s.log.Debug("Invalidated cache entries", zap.Strings("keys", keys))
}

func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*entry)
	s.log.Debug("Invalidated cache")
}

// Reload invalidates the student lists touched by an import so that the
// following roster and overview reads see the new students.
func (s *Store) Reload(promotionIDs ...string) {
	keys := []string{StudentsKey("")}
	for _, id := range promotionIDs {
		if id != "" {
			keys = append(keys, StudentsKey(id))
		}
	}
	s.Invalidate(keys...)
}

func get[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	// Take the store-wide lock and obtain the entry
	s.mu.Lock()
	e, ok := s.cache[key]
	if !ok {
		e = new(entry)
		s.cache[key] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.updated.IsZero() && (s.expiry == 0 || s.now().Before(e.updated.Add(s.expiry))) {
		return e.value.(T), nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	e.value = value
	e.updated = s.now()
	s.log.Debug("Fetched", zap.String("key", key))
	return value, nil
}

// Overview summarizes the student population.
type Overview struct {
	Students   int
	Men        int
	Women      int
	Promotions int

	// ByPromotion is ordered by descending student count.
	ByPromotion []PromotionCount
}

type PromotionCount struct {
	Promotion api.Promotion
	Students  int
}

// Overview fetches promotions and every student concurrently and tallies
// them.
func (s *Store) Overview(ctx context.Context) (*Overview, error) {
	var promotions []api.Promotion
	var students []student.Record

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		promotions, err = s.Promotions(gctx)
		return err
	})
	group.Go(func() (err error) {
		students, err = s.Students(gctx, "")
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	overview := &Overview{
		Students:   len(students),
		Promotions: len(promotions),
	}
	for _, st := range students {
		switch st.Gender() {
		case student.Male:
			overview.Men++
		case student.Female:
			overview.Women++
		}
		if id := st.PromotionID(); id != "" {
			counts[id]++
		}
	}

	for _, p := range promotions {
		overview.ByPromotion = append(overview.ByPromotion, PromotionCount{
			Promotion: p,
			Students:  counts[p.ID],
		})
	}
	sort.SliceStable(overview.ByPromotion, func(i, j int) bool {
		return overview.ByPromotion[i].Students > overview.ByPromotion[j].Students
	})
	return overview, nil
}
