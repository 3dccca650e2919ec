package fixedexpense

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/event_bus"
)

type Service interface {
	Create(ctx context.Context, template Template) (Template, error)
	Update(ctx context.Context, id string, template Template) (Template, error)
	SetActive(ctx context.Context, id string, active bool) (Template, error)
	Delete(ctx context.Context, id string) bool
	List(ctx context.Context) []Template
	RunCheck(ctx context.Context) (int, error)
}

type ServiceImpl struct {
	store  *TemplateStore
	engine *Engine
	bus    *event_bus.EventBus
}

func NewServiceImpl(store *TemplateStore, engine *Engine, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{store: store, engine: engine, bus: bus}
}

func (s *ServiceImpl) Create(ctx context.Context, template Template) (Template, error) {
	created, err := s.store.Add(template)
	if err != nil {
		return Template{}, err
	}
	s.publishChange(ctx)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id string, template Template) (Template, error) {
	updated, err := s.store.Update(id, template)
	if err != nil {
		return Template{}, err
	}
	s.publishChange(ctx)
	return updated, nil
}

func (s *ServiceImpl) SetActive(ctx context.Context, id string, active bool) (Template, error) {
	updated, err := s.store.SetActive(id, active)
	if err != nil {
		return Template{}, err
	}
	s.publishChange(ctx)
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) bool {
	removed := s.store.Delete(id)
	if removed {
		s.publishChange(ctx)
	}
	return removed
}

func (s *ServiceImpl) List(ctx context.Context) []Template {
	return s.store.All()
}

func (s *ServiceImpl) RunCheck(ctx context.Context) (int, error) {
	return s.engine.RunMonthlyCheck(ctx)
}

func (s *ServiceImpl) publishChange(ctx context.Context) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.TemplatesChanged, struct{}{})); err != nil {
		log.Errorf("failed to publish template change: %v", err)
	}
}
