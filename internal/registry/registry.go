package registry

import (
	"fmt"
	"sort"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/sports/football_nfl"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/contracts"
)

// Registry manages available sport modules, keyed by ESPN sport path
type Registry struct {
	modules map[string]contracts.SportModule
}

// New creates a new sport registry with all available sports
func New() *Registry {
	r := &Registry{
		modules: make(map[string]contracts.SportModule),
	}

	r.Register(football_nfl.New())

	return r
}

// Register adds a sport module to the registry
func (r *Registry) Register(module contracts.SportModule) {
	r.modules[module.GetESPNSportPath()] = module
}

// ForSportPath retrieves the module serving an ESPN sport path
func (r *Registry) ForSportPath(sportPath string) (contracts.SportModule, error) {
	module, ok := r.modules[sportPath]
	if !ok {
		return nil, fmt.Errorf("sport module not found: %s (available: %v)", sportPath, r.SportPaths())
	}
	return module, nil
}

// SportPaths returns all registered sport paths, sorted
func (r *Registry) SportPaths() []string {
	paths := make([]string, 0, len(r.modules))
	for path := range r.modules {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
