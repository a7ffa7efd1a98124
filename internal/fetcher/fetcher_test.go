package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"githubActivityFeed/internal/model"

	"github.com/google/go-github/v56/github"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, e *model.Event) error {
	return m.Called(e).Error(0)
}

func (m *mockStore) ClearAgg(ctx context.Context) error {
	return m.Called().Error(0)
}

const eventsJSON = `[
	{
		"id": "101",
		"type": "WatchEvent",
		"actor": {"login": "mona", "avatar_url": "https://avatars.example/mona"},
		"repo": {"name": "octo/hello"},
		"payload": {"action": "started"},
		"created_at": "2026-10-19T11:00:00Z"
	},
	{
		"id": "102",
		"type": "PushEvent",
		"actor": {"login": "hubot"},
		"repo": {"name": "octo/hello"},
		"payload": {"ref": "refs/heads/main", "head": "a1", "commits": [{"sha": "a1", "message": "one"}]},
		"created_at": "2026-10-19T10:00:00Z"
	}
]`

func newTestClient(t *testing.T, handler http.Handler) *github.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := github.NewClient(nil)
	u, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = u
	return client
}

func TestFetcher_FetchPublicEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(eventsJSON))
	})
	store := new(mockStore)
	store.On("Save", mock.MatchedBy(func(e *model.Event) bool {
		return e.ID == "101" && e.Actor.AvatarURL == "https://avatars.example/mona" &&
			e.Repo.Name == "octo/hello" && e.CreatedAt == "2026-10-19T11:00:00Z" &&
			string(e.Payload) == `{"action": "started"}`
	})).Return(nil).Once()
	store.On("Save", mock.MatchedBy(func(e *model.Event) bool { return e.ID == "102" })).Return(nil).Once()
	store.On("ClearAgg").Return(nil).Once()

	f := New(newTestClient(t, mux), store, "", 30)
	saved, err := f.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	store.AssertExpectations(t)
}

func TestFetcher_FetchRepositoryEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(eventsJSON))
	})
	store := new(mockStore)
	store.On("Save", mock.Anything).Return(nil).Once()
	store.On("ClearAgg").Return(nil).Once()

	f := New(newTestClient(t, mux), store, "octo/hello", 1)
	saved, err := f.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	store.AssertExpectations(t)
}

func TestFetcher_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	store := new(mockStore)

	f := New(newTestClient(t, mux), store, "", 30)
	saved, err := f.Fetch(context.Background())

	assert.Error(t, err)
	assert.Zero(t, saved)
	store.AssertNotCalled(t, "Save", mock.Anything)
	store.AssertNotCalled(t, "ClearAgg")
}

func TestFetcher_SaveError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(eventsJSON))
	})
	store := new(mockStore)
	store.On("Save", mock.Anything).Return(errors.New("disk full")).Once()

	f := New(newTestClient(t, mux), store, "", 30)
	_, err := f.Fetch(context.Background())

	assert.Error(t, err)
	store.AssertNotCalled(t, "ClearAgg")
}

func TestFetcher_WorkerStopsOnCancel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	store := new(mockStore)
	f := New(newTestClient(t, mux), store, "", 30)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go f.Worker(ctx, wg, time.Hour)
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}
