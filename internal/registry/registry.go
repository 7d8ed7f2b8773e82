package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Amund211/awardtracker/internal/domain"
)

// Registry is the append-only catalog of award definitions
type Registry struct {
	awards map[string]domain.AwardDefinition
	mutex  sync.RWMutex
}

func New() *Registry {
	return &Registry{
		awards: make(map[string]domain.AwardDefinition),
	}
}

// Register adds a new award definition. Definitions can never be replaced or removed.
func (r *Registry) Register(def domain.AwardDefinition) error {
	def.Icon.Color = domain.ClampIconColor(def.Icon.Color)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.awards[def.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAward, def.ID)
	}

	r.awards[def.ID] = def
	return nil
}

func (r *Registry) Exists(id string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.awards[id]
	return ok
}

func (r *Registry) Get(id string) (domain.AwardDefinition, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	def, ok := r.awards[id]
	return def, ok
}

// ListIDs returns the ids of all registered awards, sorted
func (r *Registry) ListIDs() []string {
	r.mutex.RLock()
	ids := make([]string, 0, len(r.awards))
	for id := range r.awards {
		ids = append(ids, id)
	}
	r.mutex.RUnlock()

	slices.Sort(ids)
	return ids
}

// List returns all registered definitions, sorted by id
func (r *Registry) List() []domain.AwardDefinition {
	ids := r.ListIDs()

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	defs := make([]domain.AwardDefinition, 0, len(ids))
	for _, id := range ids {
		if def, ok := r.awards[id]; ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// Name returns "" for unknown awards
func (r *Registry) Name(id string) string {
	def, _ := r.Get(id)
	return def.Name
}

// Description returns "" for unknown awards
func (r *Registry) Description(id string) string {
	def, _ := r.Get(id)
	return def.Description
}

// RequiredProgress returns 0 for unknown awards
func (r *Registry) RequiredProgress(id string) int {
	def, _ := r.Get(id)
	return def.RequiredProgress
}
