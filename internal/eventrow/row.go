package eventrow

import (
	"strings"

	"github.com/pkg/errors"
)

// Icon names come from the Octicons set.
type Icon string

const (
	IconGitCommit         Icon = "git-commit"
	IconCommentDiscussion Icon = "comment-discussion"
	IconTag               Icon = "tag"
	IconGitBranch         Icon = "git-branch"
	IconIssueOpened       Icon = "issue-opened"
	IconBook              Icon = "book"
	IconStar              Icon = "star"
)

type RowKind string

const (
	RowEvent       RowKind = "event"
	RowUnsupported RowKind = "unsupported"
	RowError       RowKind = "error"
)

type Style string

const (
	StylePlain Style = "plain"
	StyleLogin Style = "login"
	StyleRepo  Style = "repo"
	StyleRef   Style = "ref"
)

type Span struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

type CommitLine struct {
	SHA      string `json:"sha"`
	ShortSHA string `json:"short_sha"`
	Title    string `json:"title"`
}

// Row is one rendered feed entry.
type Row struct {
	EventID       string       `json:"event_id"`
	Type          string       `json:"type"`
	Kind          RowKind      `json:"kind"`
	Icon          Icon         `json:"icon,omitempty"`
	ShowAvatar    bool         `json:"show_avatar"`
	AvatarURL     string       `json:"avatar_url,omitempty"`
	Headline      []Span       `json:"headline,omitempty"`
	Text          string       `json:"text"`
	Body          string       `json:"body,omitempty"`
	Commits       []CommitLine `json:"commits,omitempty"`
	HiddenCommits int          `json:"hidden_commits,omitempty"`
	HiddenNote    string       `json:"hidden_note,omitempty"`
	Date          string       `json:"date,omitempty"`
	Tappable      bool         `json:"tappable"`
}

func joinSpans(spans []Span) string {
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

var ErrMalformedPayload = errors.New("malformed payload")

func missing(field string) error {
	return errors.Wrapf(ErrMalformedPayload, "payload.%s is missing", field)
}

// RenderError is what the Capturer receives when a row could not be built.
type RenderError struct {
	EventID string
	Type    string
	Err     error
}

func (e *RenderError) Error() string {
	return "render " + e.Type + " " + e.EventID + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error { return e.Err }
