package fixedexpense

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/smartspend/smartspend/internal/utils"
)

// TemplateStore holds the fixed-expense templates in memory. Persistence is
// handled by the sync coordinator through Snapshot and Replace.
type TemplateStore struct {
	mu        sync.Mutex
	templates []Template
	clock     utils.Clock
}

func NewTemplateStore(clock utils.Clock) *TemplateStore {
	return &TemplateStore{clock: clock}
}

func (s *TemplateStore) Add(template Template) (Template, error) {
	template.Category = strings.TrimSpace(template.Category)
	template.Description = strings.TrimSpace(template.Description)
	if err := template.Validate(); err != nil {
		return Template{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	template.ID = uuid.NewString()
	template.CreatedAt = now
	template.UpdatedAt = now
	s.templates = append(s.templates, template)
	return template, nil
}

// Update replaces the stored template's editable fields. ID and CreatedAt are
// kept; UpdatedAt is stamped.
func (s *TemplateStore) Update(id string, template Template) (Template, error) {
	template.Category = strings.TrimSpace(template.Category)
	template.Description = strings.TrimSpace(template.Description)
	if err := template.Validate(); err != nil {
		return Template{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Template{}, ErrTemplateNotFound
	}

	template.ID = id
	template.CreatedAt = s.templates[idx].CreatedAt
	template.UpdatedAt = s.clock.Now()
	s.templates[idx] = template
	return template, nil
}

// SetActive toggles a template without touching its other fields.
func (s *TemplateStore) SetActive(id string, active bool) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Template{}, ErrTemplateNotFound
	}

	s.templates[idx].IsActive = active
	s.templates[idx].UpdatedAt = s.clock.Now()
	return s.templates[idx], nil
}

func (s *TemplateStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	s.templates = append(s.templates[:idx:idx], s.templates[idx+1:]...)
	return true
}

func (s *TemplateStore) All() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]Template, len(s.templates))
	copy(copied, s.templates)
	return copied
}

// Active returns only the templates the engine should materialize.
func (s *TemplateStore) Active() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Template, 0, len(s.templates))
	for _, template := range s.templates {
		if template.IsActive {
			active = append(active, template)
		}
	}
	return active
}

func (s *TemplateStore) Snapshot() []Template {
	return s.All()
}

func (s *TemplateStore) Replace(templates []Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates = make([]Template, len(templates))
	copy(s.templates, templates)
}

func (s *TemplateStore) indexLocked(id string) int {
	for idx, template := range s.templates {
		if template.ID == id {
			return idx
		}
	}
	return -1
}
