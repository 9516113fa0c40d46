package roster

import (
	"context"
	"sort"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/internal/domain/repositories"
	"github.com/telmeet/conference-scheduler/internal/infrastructure/external/engine"
)

// pastGrace keeps conferences visible until two hours after they end.
const pastGrace = 2 * time.Hour

// DayBucket groups conferences sharing a calendar day in the host timezone.
type DayBucket struct {
	Day         time.Time                             `json:"day"`
	Conferences []entities.ScheduledConferenceSummary `json:"conferences"`
}

// Service aggregates scheduled conferences from the engine, buckets them by
// calendar day, and appends engine push notifications without a full
// refresh. Read-only with respect to the engine.
type Service struct {
	eng  engine.Engine
	repo repositories.ConferenceRepository
	log  *zap.Logger
	now  func() time.Time
	loc  *time.Location

	mu             sync.Mutex
	items          []*entities.ConferenceInfo
	showTerminated bool
	unsubscribe    func()
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation overrides the day-boundary timezone; used by tests.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// NewService creates a roster over the engine. repo may be nil; when set,
// fetched records are mirrored locally and served as a fallback when the
// engine is unreachable.
func NewService(eng engine.Engine, repo repositories.ConferenceRepository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		eng:  eng,
		repo: repo,
		log:  log,
		now:  time.Now,
		loc:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start subscribes to engine conference-info pushes. Close disposes the
// subscription.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.eng.SubscribeConferenceInfo(s.append)
}

// Close detaches the push subscription.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Refresh fetches conferences from the engine and rebuilds the buckets.
// With showTerminated false it returns everything ending no more than two
// hours in the past plus all future conferences; with true it returns only
// strictly past conferences. Zero-duration records are placeholders and are
// discarded either way.
func (s *Service) Refresh(ctx context.Context, showTerminated bool) ([]DayBucket, error) {
	now := s.now()

	var fetched []*entities.ConferenceInfo
	var err error
	if showTerminated {
		fetched, err = s.listAll(ctx)
	} else {
		fetched, err = s.listAfter(ctx, now.Add(-pastGrace))
	}
	if err != nil {
		return nil, err
	}

	kept := make([]*entities.ConferenceInfo, 0, len(fetched))
	for _, info := range fetched {
		if info.DurationMinutes == 0 {
			continue
		}
		if showTerminated {
			if !info.EndTime().Before(now) {
				continue
			}
		} else if info.EndTime().Before(now.Add(-pastGrace)) {
			continue
		}
		kept = append(kept, info)
	}

	s.mirror(ctx, kept)

	s.mu.Lock()
	s.items = kept
	s.showTerminated = showTerminated
	buckets := s.bucketLocked()
	s.mu.Unlock()
	return buckets, nil
}

// Buckets returns the current grouping without refetching.
func (s *Service) Buckets() []DayBucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucketLocked()
}

// append handles an engine push: the record joins the in-memory list and the
// buckets are rebuilt. No full refresh.
func (s *Service) append(info *entities.ConferenceInfo) {
	if info == nil || info.DurationMinutes == 0 {
		return
	}
	if s.repo != nil {
		if err := s.repo.Upsert(context.Background(), info); err != nil {
			s.log.Warn("failed to mirror pushed conference", zap.String("address", info.Address), zap.Error(err))
		}
	}

	s.mu.Lock()
	for _, existing := range s.items {
		if existing.Address == info.Address {
			s.mu.Unlock()
			return
		}
	}
	s.items = append(s.items, info)
	s.mu.Unlock()

	s.log.Info("conference received via push", zap.String("address", info.Address))
}

func (s *Service) listAll(ctx context.Context) ([]*entities.ConferenceInfo, error) {
	var out []*entities.ConferenceInfo
	op := func() error {
		var err error
		out, err = s.eng.ConferenceInformationList(ctx)
		return err
	}
	if err := s.retry(ctx, op); err != nil {
		return s.fallback(ctx, err)
	}
	return out, nil
}

func (s *Service) listAfter(ctx context.Context, t time.Time) ([]*entities.ConferenceInfo, error) {
	var out []*entities.ConferenceInfo
	op := func() error {
		var err error
		out, err = s.eng.ConferenceInformationListAfterTime(ctx, t)
		return err
	}
	if err := s.retry(ctx, op); err != nil {
		return s.fallback(ctx, err)
	}
	return out, nil
}

func (s *Service) retry(ctx context.Context, op backoff.Operation) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

// fallback serves the local mirror when the engine is unreachable.
func (s *Service) fallback(ctx context.Context, cause error) ([]*entities.ConferenceInfo, error) {
	if s.repo == nil {
		return nil, cause
	}
	s.log.Warn("engine list failed, serving local mirror", zap.Error(cause))
	return s.repo.ListAll(ctx)
}

func (s *Service) mirror(ctx context.Context, infos []*entities.ConferenceInfo) {
	if s.repo == nil {
		return
	}
	for _, info := range infos {
		if err := s.repo.Upsert(ctx, info); err != nil {
			s.log.Warn("failed to mirror conference", zap.String("address", info.Address), zap.Error(err))
		}
	}
}

// bucketLocked groups items by host-local calendar day, ordered by day, with
// each day's conferences ordered by start time.
func (s *Service) bucketLocked() []DayBucket {
	byDay := map[time.Time][]entities.ScheduledConferenceSummary{}
	for _, info := range s.items {
		summary := entities.NewScheduledConferenceSummary(info, s.loc)
		start := summary.StartTime
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
		byDay[day] = append(byDay[day], summary)
	}

	buckets := make([]DayBucket, 0, len(byDay))
	for day, summaries := range byDay {
		sort.Slice(summaries, func(i, j int) bool {
			return summaries[i].StartTime.Before(summaries[j].StartTime)
		})
		buckets = append(buckets, DayBucket{Day: day, Conferences: summaries})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Day.Before(buckets[j].Day)
	})
	return buckets
}
