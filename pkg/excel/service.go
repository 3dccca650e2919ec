package excel

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/event_bus"
)

type Service interface {
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (Report, error)
}

type ServiceImpl struct {
	exporter *Exporter
	importer *Importer
	bus      *event_bus.EventBus
}

func NewServiceImpl(exporter *Exporter, importer *Importer, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{exporter: exporter, importer: importer, bus: bus}
}

func (s *ServiceImpl) Export(ctx context.Context, w io.Writer) error {
	return s.exporter.Export(w)
}

// Import merges the workbook and, when anything was added, announces the
// ledger and category changes so the sync layer picks them up.
func (s *ServiceImpl) Import(ctx context.Context, r io.Reader) (Report, error) {
	report, err := s.importer.Import(r)
	if err != nil {
		return report, err
	}

	if report.Added > 0 && s.bus != nil {
		events := []event_bus.Event{
			event_bus.NewEvent(ctx, event_bus.LedgerChanged, event_bus.LedgerMutation{Op: "import"}),
			event_bus.NewEvent(ctx, event_bus.CategoriesChanged, event_bus.CategoryMutation{Op: "import"}),
		}
		for _, event := range events {
			if err := s.bus.Publish(event); err != nil {
				log.Errorf("failed to publish import change: %v", err)
			}
		}
	}
	return report, nil
}
