package domain

// TechStackProfile is the categorized set of technologies detected in a
// repository. Every entry in a category also appears in Detected.
type TechStackProfile struct {
	Frontend []string `json:"frontend"`
	Backend  []string `json:"backend"`
	Database []string `json:"database"`
	DevOps   []string `json:"devops"`
	Testing  []string `json:"testing"`
	Detected []string `json:"detected"`
}

// IsEmpty reports whether nothing was detected.
func (p TechStackProfile) IsEmpty() bool {
	return len(p.Detected) == 0
}

// ProjectStructureProfile summarizes folder/file composition and the derived
// architectural shape of a project.
type ProjectStructureProfile struct {
	TopLevelFolders []string       `json:"top_level_folders"`
	FileTypeCounts  FileTypeCounts `json:"file_type_counts"`
	ProjectType     string         `json:"project_type"`
}

// FileTypeCounts tallies files by coarse role.
type FileTypeCounts struct {
	Source        int `json:"source"`
	Config        int `json:"config"`
	Documentation int `json:"documentation"`
	Test          int `json:"test"`
	Other         int `json:"other"`
}

// Project type labels produced by the structure analyzer's decision table.
const (
	ProjectTypeFullStack   = "Full-Stack Application"
	ProjectTypeFrontendSPA = "Frontend SPA"
	ProjectTypeFrontend    = "Frontend Application"
	ProjectTypeNodeAPI     = "Node.js backend API"
	ProjectTypePythonAPI   = "Python backend API"
	ProjectTypeGoAPI       = "Go backend API"
	ProjectTypeBackendAPI  = "Backend API"
	ProjectTypeLibrary     = "Library/Utility"
)

// LanguageStat holds the file count and rounded share for one language.
type LanguageStat struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// LanguageStats maps language name to its per-branch distribution.
// Percentages are rounded integers and need not sum to exactly 100.
type LanguageStats map[string]LanguageStat
