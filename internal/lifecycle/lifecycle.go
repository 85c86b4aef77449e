// Package lifecycle starts and stops subsystems in dependency order.
package lifecycle

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/sprite/internal/logger"
)

var (
	// ErrCycle is wrapped by CycleError.
	ErrCycle = errors.New("lifecycle: dependency cycle")

	// ErrUnknownDependency is returned when a component depends on a name
	// that was never registered.
	ErrUnknownDependency = errors.New("lifecycle: unknown dependency")

	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("lifecycle: duplicate component")
)

// CycleError lists the components that could not be ordered.
type CycleError struct {
	Names []string
}

func (e *CycleError) Error() string {
	return "lifecycle: dependency cycle among " + strings.Join(e.Names, ", ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Component is one subsystem. Start and Stop may be nil.
type Component struct {
	Name      string
	DependsOn []string
	Start     func() error
	Stop      func() error
}

// Manager brings registered components up after their dependencies and
// takes them down in reverse.
//
// Manager is not safe for concurrent use.
type Manager struct {
	components map[string]Component
	started    []string
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{components: make(map[string]Component)}
}

// Register adds c. Dependencies are resolved when the order is computed,
// so components may be registered in any order.
func (m *Manager) Register(c Component) error {
	if _, ok := m.components[c.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, c.Name)
	}
	m.components[c.Name] = c
	return nil
}

// Order returns the component names sorted so that every component follows
// its dependencies. Components that are free to go at the same time are
// taken in name order, which makes the result deterministic.
func (m *Manager) Order() ([]string, error) {
	indegree := make(map[string]int, len(m.components))
	dependents := make(map[string][]string, len(m.components))
	for name := range m.components {
		indegree[name] = 0
	}
	for name, c := range m.components {
		for _, dep := range c.DependsOn {
			if _, ok := m.components[dep]; !ok {
				return nil, fmt.Errorf("%w: %s needs %s", ErrUnknownDependency, name, dep)
			}
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, n := range indegree {
		if n == 0 {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)

	order := make([]string, 0, len(m.components))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		for _, d := range dependents[name] {
			indegree[d]--
			if indegree[d] == 0 {
				i, _ := slices.BinarySearch(ready, d)
				ready = slices.Insert(ready, i, d)
			}
		}
	}

	if len(order) < len(m.components) {
		var stuck []string
		for name, n := range indegree {
			if n > 0 {
				stuck = append(stuck, name)
			}
		}
		slices.Sort(stuck)
		return nil, &CycleError{Names: stuck}
	}
	return order, nil
}

// Start runs every Start function in dependency order. If one fails, the
// components already started are stopped again and the error is returned.
func (m *Manager) Start() error {
	order, err := m.Order()
	if err != nil {
		return err
	}

	for _, name := range order {
		c := m.components[name]
		if c.Start != nil {
			if err := c.Start(); err != nil {
				stopErr := m.Stop()
				return errors.Join(fmt.Errorf("lifecycle: start %s: %w", name, err), stopErr)
			}
		}
		m.started = append(m.started, name)
		logger.Get().Debug("lifecycle: started", "component", name)
	}
	return nil
}

// Stop runs the Stop functions of started components in reverse start
// order. Every component is stopped even if some fail; the errors are
// joined.
func (m *Manager) Stop() error {
	var errs []error
	for i := len(m.started) - 1; i >= 0; i-- {
		name := m.started[i]
		if stop := m.components[name].Stop; stop != nil {
			if err := stop(); err != nil {
				errs = append(errs, fmt.Errorf("lifecycle: stop %s: %w", name, err))
			}
		}
		logger.Get().Debug("lifecycle: stopped", "component", name)
	}
	m.started = m.started[:0]
	return errors.Join(errs...)
}

// Started returns the names of running components in start order.
func (m *Manager) Started() []string {
	return slices.Clone(m.started)
}
