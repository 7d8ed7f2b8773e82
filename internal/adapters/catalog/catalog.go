package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/logging"
	"github.com/Amund211/awardtracker/internal/strutils"
	"gopkg.in/yaml.v3"
)

var ErrInvalidCatalog = errors.New("invalid award catalog")

type Registry interface {
	Register(def domain.AwardDefinition) error
	Exists(id string) bool
}

type iconEntry struct {
	Library string `yaml:"library"`
	Name    string `yaml:"name"`
	Color   int    `yaml:"color"`
}

type awardEntry struct {
	ID               string    `yaml:"id"`
	Name             string    `yaml:"name"`
	Description      string    `yaml:"description"`
	Icon             iconEntry `yaml:"icon"`
	RequiredProgress int       `yaml:"requiredProgress"`
}

type catalogFile struct {
	Awards []awardEntry `yaml:"awards"`
}

// Parse reads award definitions from a YAML document of the form
//
//	awards:
//	  - id: first_kill
//	    name: First Blood
//	    description: Get your first kill
//	    icon: {library: mpawards, name: first_kill, color: 1}
//	    requiredProgress: 1
func Parse(data []byte) ([]domain.AwardDefinition, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file catalogFile
	err := decoder.Decode(&file)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	seen := make(map[string]bool, len(file.Awards))
	definitions := make([]domain.AwardDefinition, 0, len(file.Awards))
	for i, entry := range file.Awards {
		if err := strutils.ValidateAwardID(entry.ID); err != nil {
			return nil, fmt.Errorf("%w: award #%d: %w", ErrInvalidCatalog, i, err)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("%w: award id '%s' listed more than once", ErrInvalidCatalog, entry.ID)
		}
		seen[entry.ID] = true

		if entry.RequiredProgress < 0 {
			return nil, fmt.Errorf("%w: award '%s' has negative required progress", ErrInvalidCatalog, entry.ID)
		}

		definitions = append(definitions, domain.NewAwardDefinition(
			entry.ID,
			entry.Name,
			entry.Description,
			entry.Icon.Library,
			entry.Icon.Name,
			entry.Icon.Color,
			entry.RequiredProgress,
		))
	}

	return definitions, nil
}

func LoadFile(path string) ([]domain.AwardDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return Parse(data)
}

// Apply registers every definition whose id isn't already registered. Returns the number of new awards.
// Registered definitions are never replaced, so changes to existing entries only apply after a restart.
func Apply(ctx context.Context, registry Registry, definitions []domain.AwardDefinition) int {
	logger := logging.FromContext(ctx)

	added := 0
	for _, definition := range definitions {
		if registry.Exists(definition.ID) {
			continue
		}

		err := registry.Register(definition)
		if err != nil {
			// Registered concurrently
			logger.WarnContext(ctx, "Failed to register award", slog.String("awardId", definition.ID), "error", err)
			continue
		}
		added++
	}

	return added
}
