package domain

import "time"

// ResumeBullet is one resume-ready achievement extracted from the summary.
type ResumeBullet struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PerformanceMetrics records how much material one analysis run consumed.
type PerformanceMetrics struct {
	CommitsAnalyzed int `json:"commits_analyzed"`
	PRsAnalyzed     int `json:"prs_analyzed"`
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesFetched    int `json:"files_fetched"`
	PromptChars     int `json:"prompt_chars"`
	ResponseChars   int `json:"response_chars"`
}

// SummaryDraft is the typed summary record built once per analysis run.
// It is either fully persisted or discarded on error, never written partially.
type SummaryDraft struct {
	ProjectIntro       string             `json:"project_intro"`
	TechStack          TechStackProfile   `json:"tech_stack"`
	TechStackNotes     string             `json:"tech_stack_notes,omitempty"`
	ArchitectureNotes  string             `json:"architecture_notes"`
	RefactoringHistory string             `json:"refactoring_history"`
	CollaborationFlow  string             `json:"collaboration_flow"`
	ResumeBullets      []ResumeBullet     `json:"resume_bullets"`
	Metrics            PerformanceMetrics `json:"metrics"`
}

// PersistedSummary is a SummaryDraft stored under its (repository, branch) key.
// At most one row exists per key; re-analysis overwrites in place.
type PersistedSummary struct {
	ID        string       `json:"id"`
	RepoID    string       `json:"repo_id"`
	Branch    string       `json:"branch"`
	Draft     SummaryDraft `json:"summary"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
