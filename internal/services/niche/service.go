// Package niche serves the niche projects catalog.
package niche

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// InitialLimit is how many projects a collapsed page shows.
const InitialLimit = 3

// ErrInvalidCatalog is returned when the document has no projects array.
var ErrInvalidCatalog = errors.New("invalid projects data format")

// Service reads the catalog from a blob store on every call, so edits to
// the file show up without a restart.
type Service struct {
	store  interfaces.BlobStore
	key    string
	logger *common.Logger
}

var _ interfaces.NicheService = (*Service)(nil)

// NewService creates a niche catalog service reading key from store.
func NewService(store interfaces.BlobStore, key string, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{store: store, key: key, logger: logger}
}

// Load reads, validates and sorts the full catalog.
func (s *Service) Load(ctx context.Context) ([]models.NicheProject, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read niche catalog %s: %w", s.key, err)
	}

	projects, err := Decode(s.key, data)
	if err != nil {
		s.logger.Warn().Err(err).Str("catalog", s.key).Msg("Failed to decode niche catalog")
		return nil, err
	}
	return projects, nil
}

// Page returns the first InitialLimit projects, or all of them when all is set.
func (s *Service) Page(ctx context.Context, all bool) (*models.NichePage, error) {
	projects, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Paginate(projects, all), nil
}

// Decode parses a catalog document. YAML is used for .yaml/.yml names,
// JSON otherwise. Projects come back stable-sorted by order.
func Decode(name string, data []byte) ([]models.NicheProject, error) {
	// Decode into a map first so a missing "projects" key is distinguishable
	// from an empty array.
	var raw map[string]any
	var catalog models.NicheCatalog

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse niche catalog: %w", err)
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to parse niche catalog: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse niche catalog: %w", err)
		}
		if err := json.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to parse niche catalog: %w", err)
		}
	}

	if _, ok := raw["projects"].([]any); !ok {
		return nil, ErrInvalidCatalog
	}

	projects := catalog.Projects
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Order < projects[j].Order
	})
	return projects, nil
}

// Paginate cuts a sorted catalog down to a page.
func Paginate(projects []models.NicheProject, all bool) *models.NichePage {
	page := &models.NichePage{
		Projects: projects,
		Total:    len(projects),
	}
	if !all && len(projects) > InitialLimit {
		page.Projects = projects[:InitialLimit]
		page.HasMore = true
	}
	if page.Projects == nil {
		page.Projects = []models.NicheProject{}
	}
	return page
}
