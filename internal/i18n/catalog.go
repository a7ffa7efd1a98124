package i18n

import (
	"encoding/json"
	"path/filepath"

	"githubActivityFeed/internal/logger"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var english = []*i18n.Message{
	{ID: "EventRow.Actions.PushedTo", Other: "pushed to"},
	{ID: "EventRow.Actions.Merged", Other: "merged"},
	{ID: "EventRow.Actions.CommentedPR", Other: "commented on pull request"},
	{ID: "EventRow.Actions.CommentedIssue", Other: "commented on issue"},
	{ID: "EventRow.Actions.CommentedCommit", Other: "commented on commit"},
	{ID: "EventRow.Actions.Forked", Other: "forked"},
	{ID: "EventRow.Actions.Created", Other: "created"},
	{ID: "EventRow.Actions.Deleted", Other: "deleted"},
	{ID: "EventRow.Actions.Starred", Other: "starred"},
	{ID: "EventRow.Actions.GollumEdit", Other: "edited the wiki"},

	{ID: "EventRow.At", Other: "at"},
	{ID: "EventRow.In", Other: "in"},
	{ID: "EventRow.To", Other: "to"},
	{ID: "EventRow.Issue", Other: "issue"},
	{ID: "EventRow.PR", Other: "pull request"},
	{ID: "EventRow.Release", Other: "release"},

	{ID: "EventRow.IssuesActions.opened", Other: "opened"},
	{ID: "EventRow.IssuesActions.closed", Other: "closed"},
	{ID: "EventRow.IssuesActions.reopened", Other: "reopened"},
	{ID: "EventRow.IssuesActions.edited", Other: "edited"},
	{ID: "EventRow.IssuesActions.assigned", Other: "assigned"},
	{ID: "EventRow.IssuesActions.unassigned", Other: "unassigned"},
	{ID: "EventRow.IssuesActions.labeled", Other: "labeled"},
	{ID: "EventRow.IssuesActions.unlabeled", Other: "unlabeled"},

	{ID: "EventRow.PullRequestActions.opened", Other: "opened"},
	{ID: "EventRow.PullRequestActions.reopened", Other: "reopened"},
	{ID: "EventRow.PullRequestActions.edited", Other: "edited"},
	{ID: "EventRow.PullRequestActions.assigned", Other: "assigned"},
	{ID: "EventRow.PullRequestActions.unassigned", Other: "unassigned"},
	{ID: "EventRow.PullRequestActions.review_requested", Other: "requested review on"},
	{ID: "EventRow.PullRequestActions.review_request_removed", Other: "removed review request on"},
	{ID: "EventRow.PullRequestActions.labeled", Other: "labeled"},
	{ID: "EventRow.PullRequestActions.unlabeled", Other: "unlabeled"},
	{ID: "EventRow.PullRequestActions.synchronize", Other: "updated"},

	{ID: "EventRow.ReleaseActions.published", Other: "published"},
	{ID: "EventRow.ReleaseActions.created", Other: "created"},
	{ID: "EventRow.ReleaseActions.edited", Other: "edited"},
	{ID: "EventRow.ReleaseActions.prereleased", Other: "pre-released"},
	{ID: "EventRow.ReleaseActions.released", Other: "released"},

	{ID: "EventRow.CreateTypes.branch", Other: "branch"},
	{ID: "EventRow.CreateTypes.tag", Other: "tag"},
	{ID: "EventRow.CreateTypes.repository", Other: "repository"},

	{ID: "EventRow.GollumActions.created", Other: "Created"},
	{ID: "EventRow.GollumActions.edited", Other: "Edited"},

	{ID: "EventRow.Commits", One: "{{.count}} commit", Other: "{{.count}} commits"},
	{ID: "EventRow.HiddenCommits", Other: "+{{.count}} more"},
	{ID: "EventRow.CommitSummary.Text", Other: "{{.commits}} with {{.additions}} and {{.deletions}}"},
	{ID: "EventRow.CommitSummary.Additions", One: "{{.count}} addition", Other: "{{.count}} additions"},
	{ID: "EventRow.CommitSummary.Deletions", One: "{{.count}} deletion", Other: "{{.count}} deletions"},

	{ID: "EventRow.TypeEventNotSupported", Other: "Event type {{.eventType}} is not supported"},
	{ID: "EventRow.UnexpectedException", Other: "Unexpected error while rendering {{.eventType}} event"},
}

// Catalog holds the message bundle every Localizer reads from.
type Catalog struct {
	bundle *i18n.Bundle
}

func NewCatalog() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	if err := bundle.AddMessages(language.English, english...); err != nil {
		return nil, errors.Wrap(err, "load english catalog")
	}
	return &Catalog{bundle: bundle}, nil
}

// LoadDir loads every *.json message file in dir, e.g. "active.de.json".
func (c *Catalog) LoadDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	for _, f := range files {
		if _, err := c.bundle.LoadMessageFile(f); err != nil {
			return errors.Wrapf(err, "load %s", f)
		}
		logger.Lg.Info("i18n_catalog_loaded", zap.String("file", f))
	}
	return nil
}

func (c *Catalog) Languages() []string {
	tags := c.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}

func (c *Catalog) Localizer(lang string) *Localizer {
	return &Localizer{lang: lang, loc: i18n.NewLocalizer(c.bundle, lang)}
}

// Match picks the catalog language closest to an Accept-Language style
// value. The bundle's default language wins when nothing matches.
func (c *Catalog) Match(accept string) string {
	tags := c.bundle.LanguageTags()
	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return tags[0].String()
	}
	_, idx, _ := language.NewMatcher(tags).Match(desired...)
	return tags[idx].String()
}
