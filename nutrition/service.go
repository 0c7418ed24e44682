package nutrition

import (
	"log"
)

// Service answers metadata and projection queries against a loaded store. The
// store is immutable, so a single Service instance is safe for concurrent
// use.
type Service struct {
	store     *Store
	projector *Projector
	logger    *log.Logger
}

// NewService wires a query service over the given store. It fails when the
// store cannot support projections, so a misbuilt dataset is rejected at
// startup rather than on the first request.
func NewService(store *Store, logger *log.Logger) (*Service, error) {
	projector, err := NewProjector(store)
	if err != nil {
		return nil, err
	}
	s := &Service{store: store, projector: projector, logger: logger}
	s.logf("Dataset ready: %d items, %d usable features", store.Count(), len(store.Features()))
	return s, nil
}

// Metadata returns the usable feature names and the full display table in
// original units.
func (s *Service) Metadata() Metadata {
	return Metadata{
		Features: s.store.Features(),
		Count:    s.store.Count(),
		Data:     s.store.DisplayRecords(),
	}
}

// Projection computes a weighted 2-D embedding for the given feature weights.
func (s *Service) Projection(weights FeatureWeights) (ProjectionResult, error) {
	return s.projector.Project(weights)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
