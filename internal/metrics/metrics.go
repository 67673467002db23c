// Package metrics counts codec activity: loads, exports and the elements
// dropped or defaulted along the way.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tsawler/deckcodec/model"
)

// Stage labels.
const (
	StageImport = "import"
	StageExport = "export"
)

var (
	registry = prometheus.NewRegistry()

	operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deckcodec",
		Name:      "operations_total",
		Help:      "Import and export operations by stage and result.",
	}, []string{"stage", "result"})

	omissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deckcodec",
		Name:      "omissions_total",
		Help:      "Elements or values dropped or defaulted, by stage and warning kind.",
	}, []string{"stage", "kind"})

	slides = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deckcodec",
		Name:      "slides_total",
		Help:      "Slides processed by stage.",
	}, []string{"stage"})
)

func init() {
	registry.MustRegister(operations, omissions, slides)
}

// Registry returns the registry holding the codec counters.
func Registry() *prometheus.Registry {
	return registry
}

// Observe records one completed operation.
func Observe(stage string, slideCount int, warnings []model.Warning, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operations.WithLabelValues(stage, result).Inc()
	if err != nil {
		return
	}
	slides.WithLabelValues(stage).Add(float64(slideCount))
	for _, w := range warnings {
		omissions.WithLabelValues(stage, w.Kind.String()).Inc()
	}
}

// Sample is one flattened counter value.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers the current counter values, sorted by name.
func Snapshot() ([]Sample, error) {
	families, err := registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: labels,
				Value:  m.GetCounter().GetValue(),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
