package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fgeck/duplicity-front/internal/models"
)

// Store maps repository names to their definitions. It is built once at
// load time and only read afterwards.
type Store struct {
	repositories map[string]*models.Repository
}

// NewStore creates a store holding repositories. Nil entries, which come
// from keys without a value, are kept as empty repositories.
func NewStore(repositories map[string]*models.Repository) *Store {
	s := &Store{repositories: make(map[string]*models.Repository, len(repositories))}
	for name, repo := range repositories {
		if repo == nil {
			repo = &models.Repository{}
		}
		s.repositories[name] = repo
	}
	return s
}

// Lookup returns the named repository. The result must not be modified.
func (s *Store) Lookup(name string) (*models.Repository, error) {
	repo, ok := s.repositories[name]
	if !ok {
		return nil, fmt.Errorf("%w: repository %s could not be loaded from the configuration", models.ErrRepositoryNotFound, name)
	}
	return repo, nil
}

// Names returns all repository names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.repositories))
	for name := range s.repositories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of repositories.
func (s *Store) Len() int {
	return len(s.repositories)
}

// Check validates every repository, then every sub-repository reference,
// then the absence of group cycles. The first problem found is returned.
func (s *Store) Check() error {
	names := s.Names()

	for _, name := range names {
		if err := s.repositories[name].Check(); err != nil {
			return fmt.Errorf("%w: error in repository %s: %w", models.ErrConfigInvariant, name, err)
		}
	}

	for _, name := range names {
		for _, child := range s.repositories[name].SubRepositories {
			if _, ok := s.repositories[child]; !ok {
				return fmt.Errorf(
					"%w: repository %s lists %s as a sub-repository, but it could not be located within the config file",
					models.ErrConfigInvariant, name, child,
				)
			}
		}
	}

	return s.checkCycles(names)
}

const (
	unvisited = iota
	visiting
	visited
)

func (s *Store) checkCycles(names []string) error {
	state := make(map[string]int, len(names))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = visiting
		stack = append(stack, name)

		for _, child := range s.repositories[name].SubRepositories {
			switch state[child] {
			case visiting:
				start := 0
				for i, n := range stack {
					if n == child {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, stack[start:]...), child)
				return fmt.Errorf("%w: sub-repository cycle detected: %s",
					models.ErrConfigInvariant, strings.Join(cycle, " -> "))
			case unvisited:
				if err := visit(child); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[name] = visited
		return nil
	}

	for _, name := range names {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}
