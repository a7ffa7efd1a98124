package eventrow

import (
	"fmt"
	"time"

	"githubActivityFeed/internal/filters"
	"githubActivityFeed/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const maxCommits = 3

type Translator interface {
	T(key string, params map[string]any) string
	Plural(key string, count int, params map[string]any) string
}

// Capturer receives every formatting failure. It must not block.
type Capturer interface {
	CaptureException(err error)
}

type Formatter struct {
	capture Capturer
	now     func() time.Time
	fromNow func(t time.Time) string
}

type Option func(*Formatter)

func WithClock(now func() time.Time) Option {
	return func(f *Formatter) { f.now = now }
}

// WithRelativeTime replaces the humanize based "3 minutes ago" formatting.
func WithRelativeTime(fn func(t time.Time) string) Option {
	return func(f *Formatter) { f.fromNow = fn }
}

func New(capture Capturer, opts ...Option) *Formatter {
	f := &Formatter{capture: capture, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	if f.fromNow == nil {
		f.fromNow = func(t time.Time) string {
			return humanize.RelTime(t, f.now(), "ago", "from now")
		}
	}
	return f
}

type buildFunc func(b *builder, ev *model.Event, p model.Payload) error

type kindSpec struct {
	icon       Icon
	showAvatar bool
	build      buildFunc
}

var kinds = map[model.Kind]kindSpec{
	model.KindPush:                     {IconGitCommit, true, typed(buildPush)},
	model.KindPullRequest:              {IconGitCommit, true, typed(buildPullRequest)},
	model.KindPullRequestReviewComment: {IconCommentDiscussion, true, typed(buildReviewComment)},
	model.KindRelease:                  {IconTag, true, typed(buildRelease)},
	model.KindFork:                     {IconGitBranch, false, typed(buildFork)},
	model.KindCreate:                   {IconTag, false, typed(buildRef("EventRow.Actions.Created"))},
	model.KindDelete:                   {IconGitBranch, true, typed(buildRef("EventRow.Actions.Deleted"))},
	model.KindCommitComment:            {IconCommentDiscussion, true, typed(buildCommitComment)},
	model.KindIssueComment:             {IconCommentDiscussion, true, typed(buildIssueComment)},
	model.KindIssues:                   {IconIssueOpened, true, typed(buildIssues)},
	model.KindIssue:                    {IconIssueOpened, true, typed(buildIssues)},
	model.KindGollum:                   {IconBook, true, typed(buildGollum)},
	model.KindWatch:                    {IconStar, false, typed(buildWatch)},
}

func typed[P model.Payload](fn func(*builder, *model.Event, P) error) buildFunc {
	return func(b *builder, ev *model.Event, p model.Payload) error {
		tp, ok := p.(P)
		if !ok {
			return errors.Errorf("unexpected payload %T for %s", p, ev.Type)
		}
		return fn(b, ev, tp)
	}
}

// Supported reports whether the formatter has a layout for kind.
func Supported(kind model.Kind) bool {
	_, ok := kinds[kind]
	return ok
}

// Render never fails: unsupported kinds and broken payloads come back as
// single line rows, and failures are sent to the Capturer.
func (f *Formatter) Render(ev *model.Event, tr Translator) (row Row) {
	defer func() {
		if r := recover(); r != nil {
			row = f.failed(ev, tr, errors.Errorf("panic: %v", r))
		}
	}()

	if ev == nil {
		return f.failed(ev, tr, errors.New("nil event"))
	}
	ks, ok := kinds[ev.Kind()]
	if !ok {
		return Row{
			EventID: ev.ID,
			Type:    ev.Type,
			Kind:    RowUnsupported,
			Text:    tr.T("EventRow.TypeEventNotSupported", map[string]any{"eventType": ev.Type}),
		}
	}

	row, err := f.render(ev, tr, ks)
	if err != nil {
		return f.failed(ev, tr, err)
	}
	return row
}

func (f *Formatter) render(ev *model.Event, tr Translator, ks kindSpec) (Row, error) {
	p, err := ev.DecodePayload()
	if err != nil {
		return Row{}, err
	}
	if err := checkSubjects(ev); err != nil {
		return Row{}, err
	}
	created, err := time.Parse(time.RFC3339, ev.CreatedAt)
	if err != nil {
		return Row{}, errors.Wrap(err, "created_at")
	}

	b := &builder{tr: tr, row: Row{
		EventID:    ev.ID,
		Type:       ev.Type,
		Kind:       RowEvent,
		Icon:       ks.icon,
		ShowAvatar: ks.showAvatar,
		Tappable:   NavigationSupported(ev.Kind()),
	}}
	if ks.showAvatar {
		b.row.AvatarURL = ev.Actor.AvatarURL
	}
	b.span(StyleLogin, ev.Actor.Login)
	if err := ks.build(b, ev, p); err != nil {
		return Row{}, err
	}
	b.row.Text = joinSpans(b.row.Headline)
	b.row.Date = f.fromNow(created)
	return b.row, nil
}

func (f *Formatter) failed(ev *model.Event, tr Translator, err error) Row {
	row := Row{Kind: RowError}
	if ev != nil {
		row.EventID = ev.ID
		row.Type = ev.Type
	}
	if f.capture != nil {
		f.capture.CaptureException(&RenderError{EventID: row.EventID, Type: row.Type, Err: err})
	}
	row.Text = safeT(tr, "EventRow.UnexpectedException", map[string]any{"eventType": row.Type},
		fmt.Sprintf("Unexpected error while rendering %s event", row.Type))
	return row
}

// safeT shields the error path from a misbehaving Translator.
func safeT(tr Translator, key string, params map[string]any, fallback string) (s string) {
	defer func() {
		if recover() != nil {
			s = fallback
		}
	}()
	if tr == nil {
		return fallback
	}
	return tr.T(key, params)
}

type builder struct {
	tr  Translator
	row Row
}

func (b *builder) span(style Style, text string) {
	b.row.Headline = append(b.row.Headline, Span{Text: text, Style: style})
}

func (b *builder) phrase(key string) {
	b.span(StylePlain, b.tr.T(key, nil))
}

func numbered(repo string, number int) string {
	return fmt.Sprintf("%s#%d", repo, number)
}

func buildPush(b *builder, ev *model.Event, p *model.PushPayload) error {
	if p.Commits == nil {
		return missing("commits")
	}
	b.phrase("EventRow.Actions.PushedTo")
	b.span(StyleRef, filters.BranchNameFromRef(p.Ref))
	b.phrase("EventRow.At")
	b.span(StyleRepo, ev.Repo.Name)

	shown := p.Commits
	if len(shown) > maxCommits {
		shown = shown[:maxCommits]
		hidden := len(p.Commits) - maxCommits
		b.row.HiddenCommits = hidden
		b.row.HiddenNote = b.tr.T("EventRow.HiddenCommits", map[string]any{
			"count":   hidden,
			"commits": b.tr.Plural("EventRow.Commits", hidden, nil),
		})
	}
	for _, c := range shown {
		b.row.Commits = append(b.row.Commits, CommitLine{
			SHA:      c.SHA,
			ShortSHA: filters.ShortSHA(c.SHA),
			Title:    filters.CommitTitle(c.Message),
		})
	}
	return nil
}

func buildPullRequest(b *builder, ev *model.Event, p *model.PullRequestPayload) error {
	pr := p.PullRequest
	if pr == nil {
		return missing("pull_request")
	}
	// closed pull requests show up in the feed as merged
	if p.Action == "closed" {
		b.phrase("EventRow.Actions.Merged")
	} else {
		b.phrase("EventRow.PullRequestActions." + p.Action)
	}
	b.phrase("EventRow.PR")
	b.span(StyleRepo, numbered(ev.Repo.Name, pr.Number))
	b.row.Body = b.tr.T("EventRow.CommitSummary.Text", map[string]any{
		"commits":   b.tr.Plural("EventRow.Commits", pr.Commits, nil),
		"additions": b.tr.Plural("EventRow.CommitSummary.Additions", pr.Additions, nil),
		"deletions": b.tr.Plural("EventRow.CommitSummary.Deletions", pr.Deletions, nil),
	})
	return nil
}

func buildIssues(b *builder, ev *model.Event, p *model.IssuesPayload) error {
	if p.Issue == nil {
		return missing("issue")
	}
	b.phrase("EventRow.IssuesActions." + p.Action)
	b.phrase("EventRow.Issue")
	b.span(StyleRepo, numbered(ev.Repo.Name, p.Issue.Number))
	b.row.Body = p.Issue.Title
	return nil
}

func buildIssueComment(b *builder, ev *model.Event, p *model.IssueCommentPayload) error {
	if p.Issue == nil {
		return missing("issue")
	}
	if p.Comment == nil {
		return missing("comment")
	}
	if p.Issue.PullRequest != nil {
		b.phrase("EventRow.Actions.CommentedPR")
	} else {
		b.phrase("EventRow.Actions.CommentedIssue")
	}
	b.span(StyleRepo, numbered(ev.Repo.Name, p.Issue.Number))
	b.row.Body = p.Comment.Body
	return nil
}

func buildCommitComment(b *builder, ev *model.Event, p *model.CommitCommentPayload) error {
	if p.Comment == nil {
		return missing("comment")
	}
	b.phrase("EventRow.Actions.CommentedCommit")
	b.span(StyleRepo, ev.Repo.Name)
	b.row.Body = p.Comment.Body
	return nil
}

func buildReviewComment(b *builder, ev *model.Event, p *model.PullRequestReviewCommentPayload) error {
	if p.PullRequest == nil {
		return missing("pull_request")
	}
	if p.Comment == nil {
		return missing("comment")
	}
	b.phrase("EventRow.Actions.CommentedPR")
	b.span(StyleRepo, numbered(ev.Repo.Name, p.PullRequest.Number))
	b.row.Body = p.Comment.Body
	return nil
}

func buildRelease(b *builder, ev *model.Event, p *model.ReleasePayload) error {
	if p.Release == nil {
		return missing("release")
	}
	b.phrase("EventRow.ReleaseActions." + p.Action)
	b.phrase("EventRow.Release")
	b.span(StyleRef, p.Release.TagName)
	b.phrase("EventRow.At")
	b.span(StyleRepo, ev.Repo.Name)
	return nil
}

func buildFork(b *builder, ev *model.Event, p *model.ForkPayload) error {
	if p.Forkee == nil {
		return missing("forkee")
	}
	b.phrase("EventRow.Actions.Forked")
	b.span(StyleRepo, ev.Repo.Name)
	b.phrase("EventRow.To")
	b.span(StyleRepo, p.Forkee.FullName)
	return nil
}

func buildRef(verb string) func(*builder, *model.Event, *model.RefPayload) error {
	return func(b *builder, ev *model.Event, p *model.RefPayload) error {
		if p.RefType == "" {
			return missing("ref_type")
		}
		b.phrase(verb)
		b.phrase("EventRow.CreateTypes." + p.RefType)
		// repository creation carries no ref
		if p.Ref != "" {
			b.span(StyleRef, p.Ref)
		}
		b.phrase("EventRow.At")
		b.span(StyleRepo, ev.Repo.Name)
		return nil
	}
}

func buildWatch(b *builder, ev *model.Event, _ *model.WatchPayload) error {
	b.phrase("EventRow.Actions.Starred")
	b.span(StyleRepo, ev.Repo.Name)
	return nil
}

func buildGollum(b *builder, ev *model.Event, p *model.GollumPayload) error {
	if len(p.Pages) == 0 {
		return missing("pages")
	}
	b.phrase("EventRow.Actions.GollumEdit")
	b.phrase("EventRow.In")
	b.span(StyleRepo, ev.Repo.Name)
	page := p.Pages[0]
	b.row.Body = b.tr.T("EventRow.GollumActions."+page.Action, nil) + " " + page.PageName
	return nil
}
