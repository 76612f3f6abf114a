// Package content serves the storefront's static pages from a YAML file.
package content

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrPageNotFound is returned for slugs without a published page.
var ErrPageNotFound = errors.New("content: page not found")

// Page is a single static page such as the delivery or returns policy.
type Page struct {
	Slug     string    `yaml:"slug" json:"slug"`
	Title    string    `yaml:"title" json:"title"`
	Body     string    `yaml:"body" json:"body"`
	Sections []Section `yaml:"sections,omitempty" json:"sections,omitempty"`
}

// Section is an optional titled block within a page body.
type Section struct {
	Heading string `yaml:"heading" json:"heading"`
	Body    string `yaml:"body" json:"body"`
}

type file struct {
	Pages []Page `yaml:"pages"`
}

// Store holds the parsed pages and supports live reload from disk. Each
// successful reload bumps the version and notifies subscribers.
type Store struct {
	path   string
	logger *slog.Logger

	mu          sync.RWMutex
	pages       map[string]Page
	version     uint64
	subscribers []chan struct{}
}

func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("content: file path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		path:   path,
		logger: logger.With("component", "content"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Page returns the page for a slug. Slugs are matched case-insensitively.
func (s *Store) Page(slug string) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.pages[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Page{}, ErrPageNotFound
	}
	return page, nil
}

// Slugs lists the published page slugs in sorted order.
func (s *Store) Slugs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slugs := make([]string, 0, len(s.pages))
	for slug := range s.pages {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Reload re-reads the pages file. On failure the previously loaded pages
// stay in service.
func (s *Store) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("content: reading %s: %w", s.path, err)
	}

	var parsed file
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("content: parsing %s: %w", s.path, err)
	}

	pages := make(map[string]Page, len(parsed.Pages))
	for _, page := range parsed.Pages {
		slug := strings.ToLower(strings.TrimSpace(page.Slug))
		if slug == "" {
			return fmt.Errorf("content: page %q is missing a slug", page.Title)
		}
		if _, exists := pages[slug]; exists {
			return fmt.Errorf("content: duplicate page slug %q", slug)
		}
		page.Slug = slug
		pages[slug] = page
	}

	s.mu.Lock()
	s.pages = pages
	s.version++
	version := s.version
	for _, sub := range s.subscribers {
		select {
		case sub <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()

	s.logger.Info("content pages loaded", "count", len(pages), "version", version, "path", s.path)
	return nil
}

// Version increments on every successful reload. Served as an ETag so clients
// revalidate instead of re-downloading unchanged pages.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe returns a channel that receives a signal after each reload. The
// channel is buffered; a slow subscriber coalesces signals rather than
// blocking the reload.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}
