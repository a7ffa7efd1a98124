package model

// Payload is one of the per-kind payload variants below.
type Payload interface {
	payload()
}

type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// PushPayload.Commits is nil when the field is absent from the payload.
type PushPayload struct {
	Ref     string   `json:"ref"`
	Head    string   `json:"head"`
	Size    int      `json:"size"`
	Commits []Commit `json:"commits"`
}

type PullRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Commits   int    `json:"commits"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

type PullRequestPayload struct {
	Action      string       `json:"action"`
	Number      int          `json:"number"`
	PullRequest *PullRequest `json:"pull_request"`
}

type Comment struct {
	ID       int64  `json:"id"`
	Body     string `json:"body"`
	CommitID string `json:"commit_id,omitempty"`
}

type PullRequestReviewCommentPayload struct {
	Action      string       `json:"action"`
	PullRequest *PullRequest `json:"pull_request"`
	Comment     *Comment     `json:"comment"`
}

// IssuePullRequest is present on issues that are pull requests.
type IssuePullRequest struct {
	URL string `json:"url"`
}

type Issue struct {
	Number      int               `json:"number"`
	Title       string            `json:"title"`
	PullRequest *IssuePullRequest `json:"pull_request,omitempty"`
}

type IssuesPayload struct {
	Action string `json:"action"`
	Issue  *Issue `json:"issue"`
}

type IssueCommentPayload struct {
	Action  string   `json:"action"`
	Issue   *Issue   `json:"issue"`
	Comment *Comment `json:"comment"`
}

type CommitCommentPayload struct {
	Comment *Comment `json:"comment"`
}

type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
}

type ReleasePayload struct {
	Action  string   `json:"action"`
	Release *Release `json:"release"`
}

type Forkee struct {
	FullName string `json:"full_name"`
}

type ForkPayload struct {
	Forkee *Forkee `json:"forkee"`
}

// RefPayload serves both CreateEvent and DeleteEvent.
type RefPayload struct {
	Ref     string `json:"ref"`
	RefType string `json:"ref_type"`
}

type Page struct {
	PageName string `json:"page_name"`
	Title    string `json:"title"`
	Action   string `json:"action"`
}

type GollumPayload struct {
	Pages []Page `json:"pages"`
}

type WatchPayload struct {
	Action string `json:"action"`
}

func (*PushPayload) payload()                     {}
func (*PullRequestPayload) payload()              {}
func (*PullRequestReviewCommentPayload) payload() {}
func (*IssuesPayload) payload()                   {}
func (*IssueCommentPayload) payload()             {}
func (*CommitCommentPayload) payload()            {}
func (*ReleasePayload) payload()                  {}
func (*ForkPayload) payload()                     {}
func (*RefPayload) payload()                      {}
func (*GollumPayload) payload()                   {}
func (*WatchPayload) payload()                    {}
