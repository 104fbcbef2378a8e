package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"nba-qa-workers/internal/models"

	"gopkg.in/yaml.v3"
)

var ErrEmptyCatalog = errors.New("CATALOG_EMPTY")

// Source produces a catalog once at startup.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Document is the on-disk catalog layout.
type Document struct {
	People []models.Person `yaml:"people"`
	Teams  []models.Team   `yaml:"teams"`
}

func (c *Catalog) Document() Document {
	return Document{People: c.People(), Teams: c.Teams()}
}

// FileSource reads a YAML catalog document.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(_ context.Context) (*Catalog, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML document. A document with no people and no teams is rejected.
func Parse(raw []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.People) == 0 && len(doc.Teams) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(doc.People, doc.Teams), nil
}

// WriteFile stores the catalog as YAML.
func WriteFile(path string, c *Catalog) error {
	raw, err := yaml.Marshal(c.Document())
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// ReferenceLister is the part of the statistics provider that lists the
// full reference vocabulary.
type ReferenceLister interface {
	People(ctx context.Context) ([]models.Person, error)
	Teams(ctx context.Context) ([]models.Team, error)
}

// ProviderSource loads the catalog from the statistics provider.
type ProviderSource struct {
	lister ReferenceLister
}

func NewProviderSource(lister ReferenceLister) *ProviderSource {
	return &ProviderSource{lister: lister}
}

func (s *ProviderSource) Load(ctx context.Context) (*Catalog, error) {
	people, err := s.lister.People(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	teams, err := s.lister.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if len(people) == 0 && len(teams) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(people, teams), nil
}
