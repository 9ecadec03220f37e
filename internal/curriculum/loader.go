// Package curriculum holds the read-only learning content: grade buckets of
// modules, prompt-engineering lessons and their quizzes.
package curriculum

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-academy/internal/quiz"
)

//go:embed content
var builtin embed.FS

// Catalog is the in-memory content store. It is filled once by the loader
// and only read afterwards.
type Catalog struct {
	grades  map[Grade][]Module
	lessons map[string]Lesson
	quizzes map[string]QuizSet
	mu      sync.RWMutex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		grades:  make(map[Grade][]Module),
		lessons: make(map[string]Lesson),
		quizzes: make(map[string]QuizSet),
	}
}

// Default returns a catalog with the built-in content.
func Default() (*Catalog, error) {
	c := NewCatalog()
	sub, err := fs.Sub(builtin, "content")
	if err != nil {
		return nil, err
	}
	if err := c.LoadFS(sub); err != nil {
		return nil, fmt.Errorf("loading built-in curriculum: %w", err)
	}
	return c, nil
}

// Load returns the built-in catalog extended with the documents under dir.
// An empty dir loads the built-in content only.
func Load(dir string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return c, nil
	}
	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("opening curriculum dir: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("curriculum path %s is not a directory", dir)
	}
	if err := c.LoadFS(os.DirFS(dir)); err != nil {
		return nil, fmt.Errorf("loading curriculum from %s: %w", dir, err)
	}

	slog.Info("curriculum loaded",
		"dir", dir,
		"lessons", c.TotalLessons(),
		"quizzes", len(c.Quizzes()),
	)
	return c, nil
}

// LoadFS merges every content document found in fsys into the catalog.
// Documents that fail to parse or validate are skipped with a warning.
func (c *Catalog) LoadFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(path, ".grades.yaml"):
			return c.loadGrades(fsys, path)
		case strings.HasSuffix(path, ".lessons.yaml"):
			return c.loadLessons(fsys, path)
		case strings.HasSuffix(path, ".quiz.yaml"):
			return c.loadQuiz(fsys, path)
		}
		return nil
	})
}

// decode reads path, checks it against schema and unmarshals it into out.
// It returns false when the document should be skipped.
func decode(fsys fs.FS, path string, schema *gojsonschema.Schema, out any) (bool, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		slog.Warn("skipping invalid curriculum YAML", "path", path, "error", err)
		return false, nil
	}
	if err := validateDoc(schema, raw); err != nil {
		slog.Warn("skipping curriculum document", "path", path, "error", err)
		return false, nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		slog.Warn("skipping invalid curriculum YAML", "path", path, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *Catalog) loadGrades(fsys fs.FS, path string) error {
	var doc gradesDoc
	ok, err := decode(fsys, path, gradesSchema, &doc)
	if err != nil || !ok {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, modules := range doc.Grades {
		g, known := ParseGrade(key)
		if !known {
			continue
		}
		c.grades[g] = modules
	}
	return nil
}

func (c *Catalog) loadLessons(fsys fs.FS, path string) error {
	var doc lessonsDoc
	ok, err := decode(fsys, path, lessonsSchema, &doc)
	if err != nil || !ok {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range doc.Lessons {
		c.lessons[l.ID] = l
	}
	return nil
}

func (c *Catalog) loadQuiz(fsys fs.FS, path string) error {
	var set QuizSet
	ok, err := decode(fsys, path, quizSchema, &set)
	if err != nil || !ok {
		return err
	}
	for i, q := range set.Questions {
		if err := q.Validate(); err != nil {
			slog.Warn("skipping quiz with invalid question", "path", path, "index", i, "error", err)
			return nil
		}
	}

	c.mu.Lock()
	c.quizzes[set.ID] = set
	c.mu.Unlock()
	return nil
}

// Modules returns a copy of the modules for a known grade.
func (c *Catalog) Modules(g Grade) ([]Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	modules, ok := c.grades[g]
	if !ok {
		return nil, false
	}
	return cloneModules(modules), true
}

// Module looks a module up by ID across every grade.
func (c *Catalog) Module(id string) (Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, modules := range c.grades {
		for _, m := range modules {
			if m.ID == id {
				m.Topics = append([]string(nil), m.Topics...)
				return m, true
			}
		}
	}
	return Module{}, false
}

// Bucket resolves a grade to its curriculum. Unknown or unset grades are
// routed to DefaultGrade; the returned grade is the bucket actually used.
func (c *Catalog) Bucket(g Grade) (Grade, []Module) {
	if modules, ok := c.Modules(g); ok {
		return g, modules
	}
	modules, _ := c.Modules(DefaultGrade)
	return DefaultGrade, modules
}

// Grades returns the grades present in the catalog, youngest first.
func (c *Catalog) Grades() []Grade {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Grade, 0, len(c.grades))
	for _, g := range Grades {
		if _, ok := c.grades[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Lesson returns a lesson by ID.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lessons[id]
	return l, ok
}

// Lessons returns all lessons ordered by Order, then ID.
func (c *Catalog) Lessons() []Lesson {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Lesson, 0, len(c.lessons))
	for _, l := range c.lessons {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TotalLessons returns the number of lessons in the catalog.
func (c *Catalog) TotalLessons() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lessons)
}

// Quiz returns a quiz set by ID.
func (c *Catalog) Quiz(id string) (QuizSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quizzes[id]
	if !ok {
		return QuizSet{}, false
	}
	q.Questions = append([]quiz.Question(nil), q.Questions...)
	return q, true
}

// Quizzes returns all quiz sets ordered by ID.
func (c *Catalog) Quizzes() []QuizSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]QuizSet, 0, len(c.quizzes))
	for _, q := range c.quizzes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneModules(in []Module) []Module {
	out := make([]Module, len(in))
	for i, m := range in {
		m.Topics = append([]string(nil), m.Topics...)
		out[i] = m
	}
	return out
}
