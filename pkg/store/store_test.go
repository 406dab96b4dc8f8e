package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"storj.io/common/testcontext"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/student"
)

type fakeSource struct {
	mu    sync.Mutex
	calls map[string]int

	promotions []api.Promotion
	annees     []api.Annee
	students   map[string][]student.Record
	minervals  map[string]*api.Minerval
	err        error
}

func (f *fakeSource) called(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[key]++
	return f.err
}

func (f *fakeSource) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeSource) Promotions(context.Context) ([]api.Promotion, error) {
	return f.promotions, f.called(keyPromotions)
}

func (f *fakeSource) Annees(context.Context) ([]api.Annee, error) {
	return f.annees, f.called(keyAnnees)
}

func (f *fakeSource) Students(_ context.Context, promotionID string) ([]student.Record, error) {
	return f.students[promotionID], f.called(StudentsKey(promotionID))
}

func (f *fakeSource) Minerval(_ context.Context, promotionID string) (*api.Minerval, error) {
	return f.minervals[promotionID], f.called(MinervalKey(promotionID))
}

func record(promotionID, sexe string) student.Record {
	return student.Record{
		InfoPerso: student.InfoPerso{Sexe: sexe},
		InfoAcad:  []student.InfoAcad{{PromotionID: promotionID}},
	}
}

func newTestStore(t *testing.T, source *fakeSource) (*Store, *time.Time) {
	return newTestStoreWithExpiry(t, source, time.Minute)
}

func newTestStoreWithExpiry(t *testing.T, source *fakeSource, expiry time.Duration) (*Store, *time.Time) {
	s, err := New(Config{
		Log:    zaptest.NewLogger(t),
		Source: source,
		Expiry: expiry,
	})
	require.NoError(t, err)

	now := time.Date(2024, 10, 7, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestNewRequiresFields(t *testing.T) {
	_, err := New(Config{Source: &fakeSource{}})
	require.EqualError(t, err, "log is required")

	_, err = New(Config{Log: zaptest.NewLogger(t)})
	require.EqualError(t, err, "source is required")

	_, err = New(Config{Log: zaptest.NewLogger(t), Source: &fakeSource{}, Expiry: -time.Second})
	require.EqualError(t, err, "expiry must not be negative")
}

func TestCachesUntilExpiry(t *testing.T) {
	ctx := testcontext.New(t)
	source := &fakeSource{promotions: []api.Promotion{{ID: "P1"}}}
	s, now := newTestStore(t, source)

	for i := 0; i < 3; i++ {
		promotions, err := s.Promotions(ctx)
		require.NoError(t, err)
		assert.Equal(t, source.promotions, promotions)
	}
	assert.Equal(t, 1, source.count(keyPromotions))

	*now = now.Add(59 * time.Second)
	_, err := s.Promotions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.count(keyPromotions))

	*now = now.Add(time.Second)
	_, err = s.Promotions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.count(keyPromotions))
}

func TestZeroExpiryCachesUntilInvalidated(t *testing.T) {
	ctx := testcontext.New(t)
	source := &fakeSource{promotions: []api.Promotion{{ID: "P1"}}}
	s, now := newTestStoreWithExpiry(t, source, 0)

	_, err := s.Promotions(ctx)
	require.NoError(t, err)

	*now = now.Add(24 * time.Hour)
	_, err = s.Promotions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.count(keyPromotions))

	s.InvalidateAll()
	_, err = s.Promotions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.count(keyPromotions))
}

func TestErrorsAreNotCached(t *testing.T) {
	ctx := testcontext.New(t)
	source := &fakeSource{err: errors.New("offline")}
	s, _ := newTestStore(t, source)

	_, err := s.Annees(ctx)
	require.EqualError(t, err, "offline")

	source.err = nil
	source.annees = []api.Annee{{ID: "A1", Slogan: "2024-2025"}}
	annee, err := s.Annee(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, annee)
	assert.Equal(t, "2024-2025", annee.Label())
	assert.Equal(t, 2, source.count(keyAnnees))

	missing, err := s.Annee(ctx, "A2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReloadInvalidatesStudents(t *testing.T) {
	ctx := testcontext.New(t)
	source := &fakeSource{
		students:  map[string][]student.Record{"P1": {record("P1", "M")}},
		minervals: map[string]*api.Minerval{"P1": {ID: "M1"}},
	}
	s, _ := newTestStore(t, source)

	_, err := s.Students(ctx, "P1")
	require.NoError(t, err)
	_, err = s.Students(ctx, "")
	require.NoError(t, err)
	m, err := s.Minerval(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "M1", m.ID)

	s.Reload("P1", "")

	_, err = s.Students(ctx, "P1")
	require.NoError(t, err)
	_, err = s.Students(ctx, "")
	require.NoError(t, err)
	_, err = s.Minerval(ctx, "P1")
	require.NoError(t, err)

	assert.Equal(t, 2, source.count(StudentsKey("P1")))
	assert.Equal(t, 2, source.count(StudentsKey("")))
	assert.Equal(t, 1, source.count(MinervalKey("P1")))

	s.InvalidateAll()
	_, err = s.Minerval(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 2, source.count(MinervalKey("P1")))
}

func TestOverview(t *testing.T) {
	ctx := testcontext.New(t)
	source := &fakeSource{
		promotions: []api.Promotion{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}},
		students: map[string][]student.Record{"": {
			record("P1", "M"),
			record("P2", "F"),
			record("P2", "féminin"),
			record("P2", "M"),
			record("", "?"),
		}},
	}
	s, _ := newTestStore(t, source)

	overview, err := s.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Overview{
		Students:   5,
		Men:        2,
		Women:      2,
		Promotions: 3,
		ByPromotion: []PromotionCount{
			{Promotion: api.Promotion{ID: "P2"}, Students: 3},
			{Promotion: api.Promotion{ID: "P1"}, Students: 1},
			{Promotion: api.Promotion{ID: "P3"}, Students: 0},
		},
	}, overview)
}

func TestOverviewError(t *testing.T) {
	source := &fakeSource{err: errors.New("offline")}
	s, _ := newTestStore(t, source)

	_, err := s.Overview(testcontext.New(t))
	require.EqualError(t, err, "offline")
}
