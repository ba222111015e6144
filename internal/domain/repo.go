package domain

import "time"

// RepositoryRef identifies a repository branch under analysis.
// It is the identity key for every downstream record.
type RepositoryRef struct {
	Owner  string `json:"owner"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
}

// FullName returns "owner/name" for logging and prompts.
func (r RepositoryRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// Repository is a row in the repository registry. A repository must be
// registered before any of its branches can be analyzed; the analysis
// pipeline reads the registry as a precondition check before persisting.
type Repository struct {
	ID            string    `json:"id"             db:"id"`
	Owner         string    `json:"owner"          db:"owner"`
	Name          string    `json:"name"           db:"name"`
	DefaultBranch string    `json:"default_branch" db:"default_branch"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"     db:"updated_at"`
}

// TreeEntry is a single node of a repository tree listing at a given ref.
type TreeEntry struct {
	Path string `json:"path"`
	Kind string `json:"kind"` // file, directory
	Size int64  `json:"size"`
}

// TreeEntry kinds.
const (
	TreeEntryFile      = "file"
	TreeEntryDirectory = "directory"
)

// IsFile reports whether the entry is a regular file.
func (e TreeEntry) IsFile() bool { return e.Kind == TreeEntryFile }

// CommitInfo is a lightweight representation of a commit for analysis input.
type CommitInfo struct {
	Hash      string    `json:"hash"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// PullRequestInfo carries the title/body pair of a pull request.
type PullRequestInfo struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
}
