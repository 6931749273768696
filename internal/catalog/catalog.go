// Package catalog expone el catálogo mock de repositorios de GitHub.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"gitgpt/internal/domain"
)

//go:embed repositories.yaml
var defaultCatalog []byte

// Catalog es de solo lectura; All devuelve copias.
type Catalog struct {
	repos []domain.Repository
}

// Parse decodifica un catálogo en YAML.
func Parse(data []byte) (*Catalog, error) {
	var repos []domain.Repository
	if err := yaml.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, r := range repos {
		if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d: id and name are required", i)
		}
	}
	return &Catalog{repos: repos}, nil
}

// Default devuelve el catálogo embebido.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) All() []domain.Repository {
	if c == nil {
		return []domain.Repository{}
	}
	out := make([]domain.Repository, len(c.repos))
	copy(out, c.repos)
	return out
}

func (c *Catalog) Get(id string) (domain.Repository, bool) {
	if c == nil {
		return domain.Repository{}, false
	}
	id = strings.TrimSpace(id)
	for _, r := range c.repos {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Repository{}, false
}
