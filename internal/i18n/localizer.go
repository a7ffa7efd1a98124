package i18n

import (
	"githubActivityFeed/internal/logger"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// Localizer resolves message keys for one language. Missing keys resolve to
// the key itself.
type Localizer struct {
	lang string
	loc  *i18n.Localizer
}

func (l *Localizer) Lang() string { return l.lang }

func (l *Localizer) T(key string, params map[string]any) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: params})
}

func (l *Localizer) Plural(key string, count int, params map[string]any) string {
	data := make(map[string]any, len(params)+1)
	for k, v := range params {
		data[k] = v
	}
	data["count"] = count
	return l.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data, PluralCount: count})
}

func (l *Localizer) localize(cfg *i18n.LocalizeConfig) string {
	s, err := l.loc.Localize(cfg)
	if err != nil {
		logger.Lg.Debug("i18n_missing", zap.String("lang", l.lang), zap.String("key", cfg.MessageID), zap.Error(err))
		if s != "" {
			return s
		}
		return cfg.MessageID
	}
	return s
}
