// internal/suite/scenario.go

// Package suite registers the storefront scenarios and runs them, each in a
// browser session of its own.
package suite

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

const (
	SiteSauceDemo = "saucedemo"
	SiteTakealot  = "takealot"
)

// Env is what a running scenario gets to work with.
type Env struct {
	Browser pages.Browser
	Sites   config.SitesConfig
	Logger  *zap.Logger
}

// Scenario is one end-to-end check against a live storefront.
type Scenario struct {
	Name string
	Site string
	Tags []string
	Run  func(ctx context.Context, env *Env) error
}

func (s Scenario) HasTag(tag string) bool {
	return slices.ContainsFunc(s.Tags, func(t string) bool { return strings.EqualFold(t, tag) })
}

// Filter narrows a selection. Empty fields match everything; several tags
// match a scenario carrying any one of them.
type Filter struct {
	Names []string
	Site  string
	Tags  []string
}

// Registry holds scenarios in registration order.
type Registry struct {
	mu        sync.RWMutex
	scenarios []Scenario
	byName    map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

func (r *Registry) Register(scenarios ...Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenario needs a name")
		}
		if s.Run == nil {
			return fmt.Errorf("scenario %q has no Run function", s.Name)
		}
		if _, dup := r.byName[s.Name]; dup {
			return fmt.Errorf("scenario %q registered twice", s.Name)
		}
		r.byName[s.Name] = len(r.scenarios)
		r.scenarios = append(r.scenarios, s)
	}
	return nil
}

func (r *Registry) MustRegister(scenarios ...Scenario) {
	if err := r.Register(scenarios...); err != nil {
		panic(err)
	}
}

func (r *Registry) All() []Scenario {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.scenarios)
}

// Sites lists the distinct sites that have scenarios, sorted.
func (r *Registry) Sites() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var sites []string
	for _, s := range r.scenarios {
		if !seen[s.Site] {
			seen[s.Site] = true
			sites = append(sites, s.Site)
		}
	}
	sort.Strings(sites)
	return sites
}

// Select returns the scenarios matching f, in registration order. Naming a
// scenario that does not exist is an error.
func (r *Registry) Select(f Filter) ([]Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var named map[string]bool
	if len(f.Names) > 0 {
		named = make(map[string]bool, len(f.Names))
		for _, n := range f.Names {
			if _, ok := r.byName[n]; !ok {
				return nil, fmt.Errorf("unknown scenario %q", n)
			}
			named[n] = true
		}
	}

	var out []Scenario
	for _, s := range r.scenarios {
		if named != nil && !named[s.Name] {
			continue
		}
		if f.Site != "" && !strings.EqualFold(s.Site, f.Site) {
			continue
		}
		if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, s.HasTag) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// Default returns a registry with every built-in scenario.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(SauceDemoScenarios()...)
	r.MustRegister(TakealotScenarios()...)
	return r
}
