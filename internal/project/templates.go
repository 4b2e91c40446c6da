package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/CakeCut/internal/model"
)

// PartyTemplate is a reusable game setup: a cake size and the portions the
// guests asked for.
type PartyTemplate struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"created_at"`
	Surface     model.Surface `json:"surface"`
	Requests    []float64     `json:"requests"`
	Tolerance   float64       `json:"tolerance"`
}

// NewPartyTemplate captures a game setup under a name.
func NewPartyTemplate(name, description string, surface model.Surface, requests []float64, tolerance float64) PartyTemplate {
	reqs := make([]float64, len(requests))
	copy(reqs, requests)
	return PartyTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Surface:     surface,
		Requests:    reqs,
		Tolerance:   tolerance,
	}
}

// Game returns a fresh game for the template.
func (t PartyTemplate) Game(behavior string) model.Game {
	reqs := make([]float64, len(t.Requests))
	copy(reqs, t.Requests)
	return model.NewGame(t.Surface, reqs, behavior)
}

// TemplateStore holds a collection of party templates.
type TemplateStore struct {
	Templates []PartyTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{Templates: []PartyTemplate{}}
}

// Add stores t, replacing any template with the same name.
func (ts *TemplateStore) Add(t PartyTemplate) {
	for i := range ts.Templates {
		if strings.EqualFold(ts.Templates[i].Name, t.Name) {
			ts.Templates[i] = t
			return
		}
	}
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by name. Returns true if found and removed.
func (ts *TemplateStore) Remove(name string) bool {
	for i, t := range ts.Templates {
		if strings.EqualFold(t.Name, name) {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the template with the given name (case-insensitive), or nil.
func (ts *TemplateStore) Find(name string) *PartyTemplate {
	for i := range ts.Templates {
		if strings.EqualFold(ts.Templates[i].Name, name) {
			return &ts.Templates[i]
		}
	}
	return nil
}

// DefaultTemplatePath returns the default file path for the templates store.
// This is located at ~/.cakecut/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store TemplateStore) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTemplates reads a template store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadTemplates(path string) (TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTemplateStore(), nil
		}
		return TemplateStore{}, err
	}
	var store TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return TemplateStore{}, err
	}
	for _, t := range store.Templates {
		if err := t.Surface.Validate(); err != nil {
			return TemplateStore{}, fmt.Errorf("template %q: %w", t.Name, err)
		}
	}
	if store.Templates == nil {
		store.Templates = []PartyTemplate{}
	}
	return store, nil
}
