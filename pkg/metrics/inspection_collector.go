package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/propinspect/inspection-planner/internal/store"
	"go.uber.org/zap"
)

type inspectionStatsCollector struct {
	store            store.Store
	inspectionsTotal *prometheus.Desc
	personsTotal     *prometheus.Desc
}

func newInspectionStatsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_%s", inspectionPlanner, name)
	}

	return &inspectionStatsCollector{
		store: s,
		inspectionsTotal: prometheus.NewDesc(
			fqName("inspections_total"),
			"Total number of inspections by status.",
			[]string{"status"},
			prometheus.Labels{},
		),
		personsTotal: prometheus.NewDesc(
			fqName("persons_total"),
			"Total number of persons by role and availability.",
			[]string{"role", "availability"},
			prometheus.Labels{},
		),
	}
}

// RegisterInspectionCollector exposes store backed gauges on the default registry.
func RegisterInspectionCollector(s store.Store) error {
	return prometheus.Register(newInspectionStatsCollector(s))
}

func (c *inspectionStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inspectionsTotal
	ch <- c.personsTotal
}

func (c *inspectionStatsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	byStatus, err := c.store.Inspection().CountByStatus(ctx, nil)
	if err != nil {
		zap.S().Named("inspection_collector").Errorf("failed to collect inspection statistics: %s", err)
		return
	}
	for status, total := range byStatus {
		ch <- prometheus.MustNewConstMetric(c.inspectionsTotal, prometheus.GaugeValue, float64(total), string(status))
	}

	persons, err := c.store.Person().List(ctx, nil)
	if err != nil {
		zap.S().Named("inspection_collector").Errorf("failed to collect person statistics: %s", err)
		return
	}
	type key struct{ role, availability string }
	counts := make(map[key]int)
	for _, p := range persons {
		counts[key{string(p.Role), string(p.Availability)}]++
	}
	for k, total := range counts {
		ch <- prometheus.MustNewConstMetric(c.personsTotal, prometheus.GaugeValue, float64(total), k.role, k.availability)
	}
}
