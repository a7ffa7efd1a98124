package fetcher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"githubActivityFeed/internal/eventrow"
	"githubActivityFeed/internal/logger"
	"githubActivityFeed/internal/metrics"
	"githubActivityFeed/internal/model"

	"github.com/google/go-github/v56/github"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Store is the part of events.Repo the fetcher writes to.
type Store interface {
	Save(ctx context.Context, e *model.Event) error
	ClearAgg(ctx context.Context) error
}

type Fetcher struct {
	client  *github.Client
	limiter *rate.Limiter
	store   Store
	owner   string
	repo    string
	limit   int
	mu      sync.Mutex
}

func NewClient(token, apiURL string) (*github.Client, error) {
	client := github.NewClient(nil)
	if apiURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, err
		}
	}
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client, nil
}

// New fetches the public timeline, or one repository's events when
// feedRepo is "owner/name".
func New(client *github.Client, store Store, feedRepo string, limit int) *Fetcher {
	f := &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		store:   store,
		limit:   limit,
	}
	if feedRepo != "" {
		f.owner, f.repo = eventrow.SplitRepoName(feedRepo)
	}
	return f
}

// Fetch saves the newest events and drops the cached feeds. It returns the
// number of events saved.
func (f *Fetcher) Fetch(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	opts := &github.ListOptions{PerPage: f.limit}
	logger.Lg.Info("api_fetch_flight", zap.String("owner", f.owner), zap.String("repo", f.repo))

	var (
		ghEvents []*github.Event
		res      *github.Response
		err      error
	)
	if f.owner != "" {
		ghEvents, res, err = f.client.Activity.ListRepositoryEvents(ctx, f.owner, f.repo, opts)
	} else {
		ghEvents, res, err = f.client.Activity.ListEvents(ctx, opts)
	}
	if err != nil {
		logger.Lg.Error("api_fetch_error", zap.Error(err))
		return 0, errors.Wrap(err, "list events")
	}
	logger.Lg.Info("api_fetch_done",
		zap.Int("status", res.StatusCode),
		zap.Int("events", len(ghEvents)),
		zap.Int("rate_remaining", res.Rate.Remaining),
	)

	saved := 0
	for _, ghEvent := range ghEvents {
		if saved == f.limit {
			break
		}
		e := convert(ghEvent)
		if err := f.store.Save(ctx, e); err != nil {
			return saved, err
		}
		saved++
	}
	metrics.FetchedEvents.Add(float64(saved))
	if saved > 0 {
		if err := f.store.ClearAgg(ctx); err != nil {
			logger.Lg.Warn("feed cache clear failed", zap.Error(err))
		}
	}
	return saved, nil
}

func convert(ghEvent *github.Event) *model.Event {
	e := &model.Event{
		ID:        ghEvent.GetID(),
		Type:      ghEvent.GetType(),
		CreatedAt: ghEvent.GetCreatedAt().UTC().Format(time.RFC3339),
	}
	if ghEvent.Actor != nil {
		e.Actor = model.Actor{Login: ghEvent.Actor.GetLogin(), AvatarURL: ghEvent.Actor.GetAvatarURL()}
	}
	if ghEvent.Repo != nil {
		e.Repo = model.Repo{Name: ghEvent.Repo.GetName()}
	}
	if ghEvent.RawPayload != nil {
		e.Payload = json.RawMessage(*ghEvent.RawPayload)
	}
	return e
}

// Worker fetches once immediately and then on every tick until ctx ends.
func (f *Fetcher) Worker(ctx context.Context, wg *sync.WaitGroup, interval time.Duration) {
	defer wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	f.fetchLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Lg.Info("Ticker stopping")
			return
		case <-ticker.C:
			f.fetchLogged(ctx)
		}
	}
}

func (f *Fetcher) fetchLogged(ctx context.Context) {
	if _, err := f.Fetch(ctx); err != nil && ctx.Err() == nil {
		metrics.FetchErrors.Inc()
		logger.Lg.Error("fetch error", zap.Error(err))
	}
}
