// Package data provides thread-safe storage for the built lookup engines.
// The DataContainer holds the resolver, expander and quality report behind
// atomic pointers so a scheduled reference-data reload can swap in a fully
// built replacement with zero downtime for readers.
package data

import (
	"sync/atomic"
	"time"

	"github.com/nicholasnlawson/dispensingpwa/formulation"
	"github.com/nicholasnlawson/dispensingpwa/interfaces"
	"github.com/nicholasnlawson/dispensingpwa/logging"
	"github.com/nicholasnlawson/dispensingpwa/shorthand"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the built engines with atomic pointers for
// zero-downtime updates
type DataContainer struct {
	resolver        atomic.Value // *warnings.Resolver
	expander        atomic.Value // *shorthand.Expander
	report          atomic.Value // *interfaces.DataQualityReport
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container with empty engines, so readers are
// safe even before the first load completes
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}

	emptyIndex := warnings.BuildIndexes(nil, nil, nil)
	dc.resolver.Store(warnings.NewResolver(emptyIndex, formulation.NewClassifier(nil)))
	dc.expander.Store(shorthand.NewExpander(nil))
	dc.report.Store(&interfaces.DataQualityReport{})
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Now())
	return dc
}

// Thread-safe getters with type check

// GetResolver returns the current warning-label resolver
func (dc *DataContainer) GetResolver() *warnings.Resolver {
	if v := dc.resolver.Load(); v != nil {
		if resolver, ok := v.(*warnings.Resolver); ok {
			return resolver
		}
	}

	logging.Warn("Resolver is empty or invalid")
	return warnings.NewResolver(warnings.BuildIndexes(nil, nil, nil), nil)
}

// GetExpander returns the current shorthand expander
func (dc *DataContainer) GetExpander() *shorthand.Expander {
	if v := dc.expander.Load(); v != nil {
		if expander, ok := v.(*shorthand.Expander); ok {
			return expander
		}
	}

	logging.Warn("Expander is empty or invalid")
	return shorthand.NewExpander(nil)
}

// GetClassifier returns the formulation classifier behind the resolver
func (dc *DataContainer) GetClassifier() *formulation.Classifier {
	return dc.GetResolver().Classifier()
}

// GetIndex returns the lookup index behind the resolver
func (dc *DataContainer) GetIndex() *warnings.Index {
	return dc.GetResolver().Index()
}

// GetQualityReport returns the report from the last completed load
func (dc *DataContainer) GetQualityReport() *interfaces.DataQualityReport {
	if v := dc.report.Load(); v != nil {
		if report, ok := v.(*interfaces.DataQualityReport); ok {
			return report
		}
	}
	return &interfaces.DataQualityReport{}
}

// GetLastUpdated returns the time of the last completed data load
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// GetServerStartTime returns when this container was created
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if start, ok := v.(time.Time); ok {
			return start
		}
	}
	return time.Time{}
}

// IsUpdating reports whether a data load is in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// UpdateData atomically swaps in fully built replacement engines
func (dc *DataContainer) UpdateData(resolver *warnings.Resolver, expander *shorthand.Expander, report *interfaces.DataQualityReport) {
	if resolver != nil {
		dc.resolver.Store(resolver)
	}
	if expander != nil {
		dc.expander.Store(expander)
	}
	if report != nil {
		dc.report.Store(report)
	}
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks an update as started; returns false if one is already
// in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the in-progress update as finished
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
