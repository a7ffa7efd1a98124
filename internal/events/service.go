package events

import (
	"context"
	"encoding/json"
	"time"

	"githubActivityFeed/internal/eventrow"
	"githubActivityFeed/internal/i18n"
	"githubActivityFeed/internal/logger"
	"githubActivityFeed/internal/metrics"
	"githubActivityFeed/internal/model"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const rawFeedKey = "raw"

type Service interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetAll(ctx context.Context) ([]byte, error)
	Feed(ctx context.Context, lang string) ([]byte, error)
	Row(ctx context.Context, id, lang string) (eventrow.Row, error)
	Tap(ctx context.Context, id string) (eventrow.Command, error)
	SelectCommit(ctx context.Context, id, sha string) ([]eventrow.Command, error)
}

type Options struct {
	FeedTTL         time.Duration
	RowTTL          time.Duration
	DefaultLanguage string
}

type service struct {
	repo      RepoInterface
	formatter *eventrow.Formatter
	catalog   *i18n.Catalog
	rows      *cache.Cache
	opts      Options
}

func NewService(r RepoInterface, f *eventrow.Formatter, c *i18n.Catalog, opts Options) Service {
	s := &service{
		repo:      r,
		formatter: f,
		catalog:   c,
		opts:      opts,
	}
	// go-cache treats a zero TTL as "never expire"; zero disables row caching here.
	if opts.RowTTL > 0 {
		s.rows = cache.New(opts.RowTTL, 2*opts.RowTTL)
	}
	return s
}

func (s *service) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return s.repo.GetEventById(ctx, id)
}

func (s *service) GetAll(ctx context.Context) ([]byte, error) {
	return s.cached(ctx, rawFeedKey, func(events []model.Event) any { return events })
}

// Feed renders every stored event for lang. The result is cached per
// language until the fetch worker saves new events or the TTL runs out.
func (s *service) Feed(ctx context.Context, lang string) ([]byte, error) {
	lang = s.language(lang)
	tr := s.catalog.Localizer(lang)
	return s.cached(ctx, lang, func(events []model.Event) any {
		rows := make([]eventrow.Row, 0, len(events))
		for i := range events {
			rows = append(rows, s.render(&events[i], tr))
		}
		return rows
	})
}

func (s *service) cached(ctx context.Context, key string, build func([]model.Event) any) ([]byte, error) {
	if data, hit, err := s.repo.GetAggJson(ctx, key); hit && err == nil {
		return data, nil
	} else if err != nil {
		return nil, err
	}

	events, err := s.repo.GetAllEvents(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	jsonbytes, err := json.Marshal(build(events))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAggJson(ctx, key, jsonbytes, s.opts.FeedTTL); err != nil {
		logger.Lg.Error("warn: cache store failed", zap.String("key", key), zap.Error(err))
	}
	return jsonbytes, nil
}

func (s *service) Row(ctx context.Context, id, lang string) (eventrow.Row, error) {
	tr := s.catalog.Localizer(s.language(lang))
	key := id + "|" + tr.Lang()
	if s.rows != nil {
		if row, ok := s.rows.Get(key); ok {
			return row.(eventrow.Row), nil
		}
	}
	e, err := s.repo.GetEventById(ctx, id)
	if err != nil {
		return eventrow.Row{}, err
	}
	row := s.render(e, tr)
	if s.rows != nil {
		s.rows.SetDefault(key, row)
	}
	return row, nil
}

func (s *service) render(e *model.Event, tr eventrow.Translator) eventrow.Row {
	row := s.formatter.Render(e, tr)
	if row.Kind == eventrow.RowUnsupported {
		metrics.UnsupportedEvents.WithLabelValues(e.Type).Inc()
	}
	return row
}

func (s *service) Tap(ctx context.Context, id string) (eventrow.Command, error) {
	e, err := s.repo.GetEventById(ctx, id)
	if err != nil {
		return eventrow.Command{}, err
	}
	cmd, err := eventrow.Route(e)
	if err != nil {
		logger.Lg.Warn("tap_route_failed", zap.String("id", id), zap.String("type", e.Type), zap.Error(err))
		return eventrow.Command{}, err
	}
	logger.Lg.Info("tap", zap.String("id", id), zap.String("type", e.Type), zap.String("command", string(cmd.Kind)))
	return cmd, nil
}

func (s *service) SelectCommit(ctx context.Context, id, sha string) ([]eventrow.Command, error) {
	e, err := s.repo.GetEventById(ctx, id)
	if err != nil {
		return nil, err
	}
	return eventrow.Select(e, sha)
}

func (s *service) language(lang string) string {
	if lang == "" {
		lang = s.opts.DefaultLanguage
	}
	return s.catalog.Match(lang)
}
