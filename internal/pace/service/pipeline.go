package service

import (
	"fmt"

	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

// buildPipeline resolves the requested metric set (plus transitive
// dependencies) against the available extractors and orders them so
// every dependency runs earlier in the same pass. Unknown metrics and
// dependency cycles are build-time errors, not silent mis-ordering.
func buildPipeline(available []pacedomain.Extractor, requested []string) ([]pacedomain.Extractor, error) {
	byID := make(map[string]pacedomain.Extractor, len(available))
	for _, ex := range available {
		byID[ex.ID()] = ex
	}

	if len(requested) == 0 {
		for _, ex := range available {
			requested = append(requested, ex.ID())
		}
	}

	// Closure over declared dependencies.
	include := make(map[string]bool)
	queue := append([]string(nil), requested...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if include[id] {
			continue
		}
		ex, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", pacedomain.ErrUnknownMetric, id)
		}
		include[id] = true
		queue = append(queue, ex.DependsOn()...)
	}

	// Kahn's algorithm, stable over the battery's declared order.
	ordered := make([]pacedomain.Extractor, 0, len(include))
	done := make(map[string]bool, len(include))
	for len(ordered) < len(include) {
		progressed := false
		for _, ex := range available {
			id := ex.ID()
			if !include[id] || done[id] {
				continue
			}
			ready := true
			for _, dep := range ex.DependsOn() {
				if !done[dep] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			ordered = append(ordered, ex)
			done[id] = true
			progressed = true
		}
		if !progressed {
			return nil, pacedomain.ErrMetricCycle
		}
	}
	return ordered, nil
}

// orderedPipeline selects extractors from a fresh battery following an
// already resolved execution order. Batteries are rebuilt per pickup
// step because some extractors capture the step's booking snapshot.
func orderedPipeline(available []pacedomain.Extractor, order []string) []pacedomain.Extractor {
	byID := make(map[string]pacedomain.Extractor, len(available))
	for _, ex := range available {
		byID[ex.ID()] = ex
	}
	pipeline := make([]pacedomain.Extractor, 0, len(order))
	for _, id := range order {
		if ex, ok := byID[id]; ok {
			pipeline = append(pipeline, ex)
		}
	}
	return pipeline
}
