package model

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindPush                     Kind = "PushEvent"
	KindPullRequest              Kind = "PullRequestEvent"
	KindPullRequestReviewComment Kind = "PullRequestReviewCommentEvent"
	KindRelease                  Kind = "ReleaseEvent"
	KindFork                     Kind = "ForkEvent"
	KindCreate                   Kind = "CreateEvent"
	KindDelete                   Kind = "DeleteEvent"
	KindCommitComment            Kind = "CommitCommentEvent"
	KindIssueComment             Kind = "IssueCommentEvent"
	KindIssues                   Kind = "IssuesEvent"
	KindIssue                    Kind = "IssueEvent"
	KindGollum                   Kind = "GollumEvent"
	KindWatch                    Kind = "WatchEvent"
)

var ErrUnsupportedKind = errors.New("unsupported event kind")

type Actor struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Repo struct {
	Name string `json:"name"`
}

type Event struct {
	ID string `json:"id"`

	Type      string          `json:"type"`
	CreatedAt string          `json:"created_at"`
	Repo      Repo            `json:"repo"`
	Actor     Actor           `json:"actor"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (e *Event) Kind() Kind { return Kind(e.Type) }

// DecodePayload unmarshals the raw payload into the variant matching the
// event type. Unknown types return ErrUnsupportedKind.
func (e *Event) DecodePayload() (Payload, error) {
	var p Payload
	switch e.Kind() {
	case KindPush:
		p = &PushPayload{}
	case KindPullRequest:
		p = &PullRequestPayload{}
	case KindPullRequestReviewComment:
		p = &PullRequestReviewCommentPayload{}
	case KindRelease:
		p = &ReleasePayload{}
	case KindFork:
		p = &ForkPayload{}
	case KindCreate, KindDelete:
		p = &RefPayload{}
	case KindCommitComment:
		p = &CommitCommentPayload{}
	case KindIssueComment:
		p = &IssueCommentPayload{}
	case KindIssues, KindIssue:
		p = &IssuesPayload{}
	case KindGollum:
		p = &GollumPayload{}
	case KindWatch:
		p = &WatchPayload{}
	default:
		return nil, errors.Wrap(ErrUnsupportedKind, e.Type)
	}
	if len(e.Payload) == 0 {
		return nil, errors.Errorf("%s %s: empty payload", e.Type, e.ID)
	}
	if err := json.Unmarshal(e.Payload, p); err != nil {
		return nil, errors.Wrapf(err, "decode %s payload", e.Type)
	}
	return p, nil
}
