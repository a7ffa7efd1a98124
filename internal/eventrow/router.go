package eventrow

import (
	"strings"

	"githubActivityFeed/internal/filters"
	"githubActivityFeed/internal/model"

	"github.com/pkg/errors"
)

type CommandKind string

const (
	CommandNone            CommandKind = "none"
	CommandShowRepository  CommandKind = "show-repository"
	CommandShowCommit      CommandKind = "show-commit"
	CommandShowIssue       CommandKind = "show-issue"
	CommandShowPullRequest CommandKind = "show-pull-request"
	CommandOpenModal       CommandKind = "open-modal"
	CommandCloseModal      CommandKind = "close-modal"
)

type PickerOption struct {
	SHA   string `json:"sha"`
	Label string `json:"label"`
}

// Command is a navigation request for the client to carry out.
type Command struct {
	Kind      CommandKind    `json:"kind"`
	Owner     string         `json:"owner,omitempty"`
	Name      string         `json:"name,omitempty"`
	SHA       string         `json:"sha,omitempty"`
	Number    int            `json:"number,omitempty"`
	CommentID int64          `json:"comment_id,omitempty"`
	Options   []PickerOption `json:"options,omitempty"`
}

var (
	ErrUnknownCommit  = errors.New("commit is not part of the push")
	ErrNotSelectable  = errors.New("event has no commit picker")
	noCommand         = Command{Kind: CommandNone}
	navigationEnabled = map[model.Kind]bool{
		model.KindFork:                     true,
		model.KindPullRequest:              true,
		model.KindIssues:                   true,
		model.KindIssue:                    true,
		model.KindPush:                     true,
		model.KindWatch:                    true,
		model.KindIssueComment:             true,
		model.KindPullRequestReviewComment: true,
	}
)

// NavigationSupported is narrower than Supported: some kinds render but
// have no destination screen yet.
func NavigationSupported(kind model.Kind) bool {
	return navigationEnabled[kind]
}

// checkSubjects rejects events delivered without an actor or a repository.
func checkSubjects(ev *model.Event) error {
	if ev.Actor.Login == "" {
		return errors.Wrap(ErrMalformedPayload, "event.actor is missing")
	}
	if ev.Repo.Name == "" {
		return errors.Wrap(ErrMalformedPayload, "event.repo is missing")
	}
	return nil
}

// SplitRepoName splits "owner/name". A name without a slash comes back as
// the owner with an empty name.
func SplitRepoName(fullName string) (owner, name string) {
	owner, name, _ = strings.Cut(fullName, "/")
	return owner, name
}

// Route maps a tapped event to exactly one command. Kinds outside the
// navigation allow-list route to CommandNone.
func Route(ev *model.Event) (Command, error) {
	if !NavigationSupported(ev.Kind()) {
		return noCommand, nil
	}
	if err := checkSubjects(ev); err != nil {
		return Command{}, err
	}
	p, err := ev.DecodePayload()
	if err != nil {
		return Command{}, err
	}
	owner, name := SplitRepoName(ev.Repo.Name)

	switch p := p.(type) {
	case *model.PullRequestPayload:
		if p.PullRequest == nil {
			return Command{}, missing("pull_request")
		}
		return Command{Kind: CommandShowPullRequest, Owner: owner, Name: name, Number: p.PullRequest.Number}, nil
	case *model.PullRequestReviewCommentPayload:
		if p.PullRequest == nil {
			return Command{}, missing("pull_request")
		}
		cmd := Command{Kind: CommandShowPullRequest, Owner: owner, Name: name, Number: p.PullRequest.Number}
		if p.Comment != nil {
			cmd.CommentID = p.Comment.ID
		}
		return cmd, nil
	case *model.IssuesPayload:
		if p.Issue == nil {
			return Command{}, missing("issue")
		}
		return Command{Kind: CommandShowIssue, Owner: owner, Name: name, Number: p.Issue.Number}, nil
	case *model.IssueCommentPayload:
		if p.Issue == nil {
			return Command{}, missing("issue")
		}
		cmd := Command{Kind: CommandShowIssue, Owner: owner, Name: name, Number: p.Issue.Number}
		if p.Issue.PullRequest != nil {
			cmd.Kind = CommandShowPullRequest
		}
		if p.Comment != nil {
			cmd.CommentID = p.Comment.ID
		}
		return cmd, nil
	case *model.PushPayload:
		if p.Commits == nil {
			return Command{}, missing("commits")
		}
		if len(p.Commits) > 1 {
			options := make([]PickerOption, 0, len(p.Commits))
			for _, c := range p.Commits {
				options = append(options, PickerOption{
					SHA:   c.SHA,
					Label: filters.ShortSHA(c.SHA) + " " + filters.CommitTitle(c.Message),
				})
			}
			return Command{Kind: CommandOpenModal, Owner: owner, Name: name, Options: options}, nil
		}
		return Command{Kind: CommandShowCommit, Owner: owner, Name: name, SHA: p.Head}, nil
	case *model.ForkPayload, *model.WatchPayload:
		return Command{Kind: CommandShowRepository, Owner: owner, Name: name}, nil
	}
	return noCommand, nil
}

// Select resolves a commit picked from the push picker: the modal closes and
// the commit opens.
func Select(ev *model.Event, sha string) ([]Command, error) {
	if ev.Kind() != model.KindPush {
		return nil, ErrNotSelectable
	}
	if err := checkSubjects(ev); err != nil {
		return nil, err
	}
	p, err := ev.DecodePayload()
	if err != nil {
		return nil, err
	}
	push := p.(*model.PushPayload)
	owner, name := SplitRepoName(ev.Repo.Name)
	for _, c := range push.Commits {
		if c.SHA == sha {
			return []Command{
				{Kind: CommandCloseModal},
				{Kind: CommandShowCommit, Owner: owner, Name: name, SHA: c.SHA},
			}, nil
		}
	}
	return nil, errors.Wrap(ErrUnknownCommit, sha)
}
