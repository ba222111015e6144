package analysis

import (
	"encoding/json"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

// Tech stack categories.
const (
	CategoryFrontend = "frontend"
	CategoryBackend  = "backend"
	CategoryDatabase = "database"
	CategoryDevOps   = "devops"
	CategoryTesting  = "testing"
)

// importantFiles is the canonical list of configuration files whose contents
// drive tech-stack detection. Selection is by substring match against the
// path's base name, capped at MaxImportantFiles per run, in tree order.
var importantFiles = []string{
	"package.json",
	"requirements.txt",
	"pyproject.toml",
	"go.mod",
	"pom.xml",
	"build.gradle",
	"Cargo.toml",
	"Gemfile",
	"composer.json",
	"Dockerfile",
	"docker-compose.yml",
	"Makefile",
	"tsconfig.json",
	"vite.config",
	"webpack.config",
	"next.config",
}

// MaxImportantFiles bounds how many configuration files feed the detector.
const MaxImportantFiles = 10

// techRule maps a content substring to a detected technology.
type techRule struct {
	Needle   string
	Category string
	Tech     string
}

// npmDependencyRules match against dependency names in package.json.
var npmDependencyRules = []techRule{
	{"react-native", CategoryFrontend, "React Native"},
	{"react", CategoryFrontend, "React"},
	{"next", CategoryFrontend, "Next.js"},
	{"vue", CategoryFrontend, "Vue.js"},
	{"nuxt", CategoryFrontend, "Nuxt"},
	{"@angular/core", CategoryFrontend, "Angular"},
	{"svelte", CategoryFrontend, "Svelte"},
	{"tailwindcss", CategoryFrontend, "Tailwind CSS"},
	{"typescript", CategoryFrontend, "TypeScript"},
	{"vite", CategoryFrontend, "Vite"},
	{"webpack", CategoryFrontend, "Webpack"},
	{"redux", CategoryFrontend, "Redux"},
	{"zustand", CategoryFrontend, "Zustand"},
	{"express", CategoryBackend, "Express.js"},
	{"@nestjs/core", CategoryBackend, "NestJS"},
	{"fastify", CategoryBackend, "Fastify"},
	{"koa", CategoryBackend, "Koa"},
	{"graphql", CategoryBackend, "GraphQL"},
	{"socket.io", CategoryBackend, "Socket.IO"},
	{"mongoose", CategoryDatabase, "MongoDB"},
	{"mongodb", CategoryDatabase, "MongoDB"},
	{"pg", CategoryDatabase, "PostgreSQL"},
	{"mysql", CategoryDatabase, "MySQL"},
	{"sequelize", CategoryDatabase, "Sequelize"},
	{"typeorm", CategoryDatabase, "TypeORM"},
	{"prisma", CategoryDatabase, "Prisma"},
	{"redis", CategoryDatabase, "Redis"},
	{"jest", CategoryTesting, "Jest"},
	{"mocha", CategoryTesting, "Mocha"},
	{"cypress", CategoryTesting, "Cypress"},
	{"vitest", CategoryTesting, "Vitest"},
	{"@playwright/test", CategoryTesting, "Playwright"},
	{"eslint", CategoryDevOps, "ESLint"},
}

// pythonRules match against requirements.txt / pyproject.toml content.
var pythonRules = []techRule{
	{"django", CategoryBackend, "Django"},
	{"flask", CategoryBackend, "Flask"},
	{"fastapi", CategoryBackend, "FastAPI"},
	{"celery", CategoryBackend, "Celery"},
	{"sqlalchemy", CategoryDatabase, "SQLAlchemy"},
	{"psycopg", CategoryDatabase, "PostgreSQL"},
	{"pymongo", CategoryDatabase, "MongoDB"},
	{"redis", CategoryDatabase, "Redis"},
	{"pytest", CategoryTesting, "pytest"},
	{"pandas", CategoryBackend, "pandas"},
	{"numpy", CategoryBackend, "NumPy"},
	{"torch", CategoryBackend, "PyTorch"},
	{"tensorflow", CategoryBackend, "TensorFlow"},
}

// goModuleRules match against go.mod content.
var goModuleRules = []techRule{
	{"github.com/gin-gonic/gin", CategoryBackend, "Gin"},
	{"github.com/labstack/echo", CategoryBackend, "Echo"},
	{"github.com/gofiber/fiber", CategoryBackend, "Fiber"},
	{"github.com/gorilla/mux", CategoryBackend, "Gorilla Mux"},
	{"google.golang.org/grpc", CategoryBackend, "gRPC"},
	{"github.com/lib/pq", CategoryDatabase, "PostgreSQL"},
	{"github.com/jackc/pgx", CategoryDatabase, "PostgreSQL"},
	{"gorm.io/gorm", CategoryDatabase, "GORM"},
	{"go.mongodb.org/mongo-driver", CategoryDatabase, "MongoDB"},
	{"github.com/redis/go-redis", CategoryDatabase, "Redis"},
	{"github.com/stretchr/testify", CategoryTesting, "Testify"},
}

// jvmRules match against pom.xml / build.gradle content.
var jvmRules = []techRule{
	{"spring-boot", CategoryBackend, "Spring Boot"},
	{"spring-webmvc", CategoryBackend, "Spring MVC"},
	{"quarkus", CategoryBackend, "Quarkus"},
	{"micronaut", CategoryBackend, "Micronaut"},
	{"hibernate", CategoryDatabase, "Hibernate"},
	{"mysql-connector", CategoryDatabase, "MySQL"},
	{"postgresql", CategoryDatabase, "PostgreSQL"},
	{"junit", CategoryTesting, "JUnit"},
	{"kotlin", CategoryBackend, "Kotlin"},
}

// containerRules match against Dockerfile / docker-compose content.
var containerRules = []techRule{
	{"postgres", CategoryDatabase, "PostgreSQL"},
	{"mysql", CategoryDatabase, "MySQL"},
	{"mongo", CategoryDatabase, "MongoDB"},
	{"redis", CategoryDatabase, "Redis"},
	{"nginx", CategoryDevOps, "Nginx"},
	{"rabbitmq", CategoryDevOps, "RabbitMQ"},
	{"kafka", CategoryDevOps, "Kafka"},
	{"elasticsearch", CategoryDatabase, "Elasticsearch"},
}

// TechStackBuilder accumulates detections and deduplicates on finalize.
// The zero value is ready to use. Detection is purely additive: the same
// inputs always produce the same profile regardless of prior state.
type TechStackBuilder struct {
	entries map[string]map[string]bool // category -> tech set
}

// Add records one (category, technology) detection.
func (b *TechStackBuilder) Add(category, tech string) {
	if b.entries == nil {
		b.entries = make(map[string]map[string]bool)
	}
	if b.entries[category] == nil {
		b.entries[category] = make(map[string]bool)
	}
	b.entries[category][tech] = true
}

// Merge folds another builder's detections into this one.
func (b *TechStackBuilder) Merge(other TechStackBuilder) {
	for category, techs := range other.entries {
		for tech := range techs {
			b.Add(category, tech)
		}
	}
}

// Build finalizes the profile. Category lists are sorted for determinism and
// every categorized technology also appears in Detected.
func (b *TechStackBuilder) Build() domain.TechStackProfile {
	profile := domain.TechStackProfile{}
	seen := make(map[string]bool)

	collect := func(category string) []string {
		techs := make([]string, 0, len(b.entries[category]))
		for tech := range b.entries[category] {
			techs = append(techs, tech)
			if !seen[tech] {
				seen[tech] = true
				profile.Detected = append(profile.Detected, tech)
			}
		}
		sort.Strings(techs)
		return techs
	}

	profile.Frontend = collect(CategoryFrontend)
	profile.Backend = collect(CategoryBackend)
	profile.Database = collect(CategoryDatabase)
	profile.DevOps = collect(CategoryDevOps)
	profile.Testing = collect(CategoryTesting)
	sort.Strings(profile.Detected)
	return profile
}

// SelectImportantFiles picks up to MaxImportantFiles configuration file paths
// from the tree, by substring match against the canonical list, in tree order.
// Paths rejected by ShouldAnalyzePath never reach the fetcher: a vendored
// manifest or a lockfile must not feed tech-stack detection.
func SelectImportantFiles(entries []domain.TreeEntry) []string {
	var selected []string
	for _, e := range entries {
		if len(selected) >= MaxImportantFiles {
			break
		}
		if !e.IsFile() || !ShouldAnalyzePath(e.Path) {
			continue
		}
		base := path.Base(e.Path)
		for _, name := range importantFiles {
			if strings.Contains(base, name) {
				selected = append(selected, e.Path)
				break
			}
		}
	}
	return selected
}

// DetectTechStack inspects the given path→content mapping of configuration
// files and returns a categorized technology profile. Malformed content is
// skipped per file; detection never aborts the run.
func DetectTechStack(files map[string]string) domain.TechStackProfile {
	var builder TechStackBuilder

	// Deterministic file order: map iteration order must not leak into logs
	// or incremental accumulation.
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		builder.Merge(detectFromFile(p, files[p]))
	}

	return builder.Build()
}

// detectFromFile applies the rule table for one recognized config file type.
func detectFromFile(filePath, content string) TechStackBuilder {
	var b TechStackBuilder
	base := path.Base(filePath)
	lower := strings.ToLower(content)

	switch {
	case base == "package.json":
		applyPackageJSON(&b, content)
	case base == "requirements.txt" || base == "pyproject.toml" || base == "Pipfile":
		applyRules(&b, lower, pythonRules)
	case base == "go.mod":
		applyRules(&b, content, goModuleRules)
		b.Add(CategoryBackend, "Go")
	case base == "pom.xml" || strings.HasPrefix(base, "build.gradle"):
		applyRules(&b, lower, jvmRules)
	case base == "Cargo.toml":
		b.Add(CategoryBackend, "Rust")
		if strings.Contains(lower, "actix") {
			b.Add(CategoryBackend, "Actix")
		}
		if strings.Contains(lower, "axum") {
			b.Add(CategoryBackend, "Axum")
		}
	case base == "Gemfile":
		b.Add(CategoryBackend, "Ruby")
		if strings.Contains(lower, "rails") {
			b.Add(CategoryBackend, "Ruby on Rails")
		}
	case base == "composer.json":
		b.Add(CategoryBackend, "PHP")
		if strings.Contains(lower, "laravel") {
			b.Add(CategoryBackend, "Laravel")
		}
	case strings.Contains(base, "Dockerfile") || strings.Contains(base, "docker-compose"):
		b.Add(CategoryDevOps, "Docker")
		applyRules(&b, lower, containerRules)
	}

	return b
}

// applyRules runs a substring rule table against content.
func applyRules(b *TechStackBuilder, content string, rules []techRule) {
	for _, r := range rules {
		if strings.Contains(content, r.Needle) {
			b.Add(r.Category, r.Tech)
		}
	}
}

// applyPackageJSON parses the manifest and matches rules against dependency
// names only, so substrings in unrelated fields don't trigger detections.
// Unparsable manifests fall back to whole-content matching.
func applyPackageJSON(b *TechStackBuilder, content string) {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		slog.Warn("unparsable package.json, falling back to content match", "error", err)
		applyRules(b, strings.ToLower(content), npmDependencyRules)
		return
	}

	match := func(deps map[string]string) {
		for name := range deps {
			for _, r := range npmDependencyRules {
				if name == r.Needle || strings.HasPrefix(name, r.Needle+"-") || strings.HasPrefix(name, r.Needle+"/") {
					b.Add(r.Category, r.Tech)
				}
			}
		}
	}
	match(manifest.Dependencies)
	match(manifest.DevDependencies)

	if _, ok := manifest.Dependencies["react"]; ok {
		b.Add(CategoryFrontend, "React")
	}
	b.Add(CategoryBackend, "Node.js")
}
