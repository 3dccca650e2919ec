package category

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/event_bus"
)

type Service interface {
	Create(ctx context.Context, name string) (Category, error)
	Rename(ctx context.Context, id, newName string) (Category, int, error)
	Delete(ctx context.Context, id string) (int, bool)
	Reorder(ctx context.Context, ids []string) error
	List(ctx context.Context) []Category
}

type ServiceImpl struct {
	registry *Registry
	bus      *event_bus.EventBus
}

func NewServiceImpl(registry *Registry, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{registry: registry, bus: bus}
}

func (s *ServiceImpl) Create(ctx context.Context, name string) (Category, error) {
	created, err := s.registry.Add(name)
	if err != nil {
		return Category{}, err
	}
	s.publishChange(ctx, event_bus.CategoryMutation{Op: "create", Name: created.Name})
	return created, nil
}

func (s *ServiceImpl) Rename(ctx context.Context, id, newName string) (Category, int, error) {
	renamed, rewritten, err := s.registry.Rename(id, newName)
	if err != nil {
		return Category{}, 0, err
	}
	s.publishChange(ctx, event_bus.CategoryMutation{Op: "rename", Name: renamed.Name})
	return renamed, rewritten, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) (int, bool) {
	removed, reassigned, ok := s.registry.Delete(id)
	if !ok {
		return 0, false
	}
	s.publishChange(ctx, event_bus.CategoryMutation{Op: "delete", Name: removed.Name})
	return reassigned, true
}

func (s *ServiceImpl) Reorder(ctx context.Context, ids []string) error {
	if err := s.registry.Reorder(ids); err != nil {
		return err
	}
	s.publishChange(ctx, event_bus.CategoryMutation{Op: "reorder"})
	return nil
}

func (s *ServiceImpl) List(ctx context.Context) []Category {
	return s.registry.All()
}

func (s *ServiceImpl) publishChange(ctx context.Context, mutation event_bus.CategoryMutation) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.CategoriesChanged, mutation)); err != nil {
		log.Errorf("failed to publish category change: %v", err)
	}
}
