// Package scheduler provides automated reference-data update scheduling and
// health monitoring for the labels API. It handles cron-based table reloads,
// health checks, and coordinates data refresh operations with the data
// container using dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/nicholasnlawson/dispensingpwa/formulation"
	"github.com/nicholasnlawson/dispensingpwa/interfaces"
	"github.com/nicholasnlawson/dispensingpwa/logging"
	"github.com/nicholasnlawson/dispensingpwa/refdata"
	"github.com/nicholasnlawson/dispensingpwa/shorthand"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

// Compile-time checks
var (
	_ interfaces.Scheduler = (*Scheduler)(nil)
	_ interfaces.Loader    = (*refdata.Loader)(nil)
)

// Scheduler handles data updates and health monitoring using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.Loader
	validator interfaces.DataValidator
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.Loader, validator interfaces.DataValidator) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		validator: validator,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start initializes the scheduler with data updates and health monitoring
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	// Schedule updates at 06:00 and 18:00 daily
	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to update data", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule updates", "error", err)
		return fmt.Errorf("failed to schedule updates: %w", err)
	}

	s.scheduler.StartAsync()

	// Start health monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// updateData performs a complete table reload using injected dependencies
func (s *Scheduler) updateData() error {
	// Prevent concurrent updates
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info(fmt.Sprintf("Starting reference data update at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	// Fetch fresh files when a source is configured
	if err := s.loader.Refresh(); err != nil {
		// Stale local files still serve; log and continue with what is on disk
		logging.Warn("Reference data refresh failed, using local files", "error", err)
	}

	tables, err := s.loader.Load()
	if err != nil {
		logging.Error("Failed to load reference tables", "error", err)
		return fmt.Errorf("failed to load reference tables: %w", err)
	}

	report := s.validator.ReportDataQuality(tables)

	if len(report.CollidingAliases) > 0 {
		logging.Warn("Alias collisions detected",
			"total", len(report.CollidingAliases),
			"aliases", report.CollidingAliases,
		)
	}

	if len(report.DuplicateLabelNumbers) > 0 {
		logging.Warn("Duplicate catalog label numbers detected",
			"total", len(report.DuplicateLabelNumbers),
			"numbers", report.DuplicateLabelNumbers,
		)
	}

	if len(report.MissingCatalogLabels) > 0 {
		logging.Warn("Warning entries reference labels missing from the catalog",
			"total", len(report.MissingCatalogLabels),
			"numbers", report.MissingCatalogLabels,
		)
	}

	if report.EntriesWithoutForms > 0 {
		logging.Warn("Warning entries without formulations", "count", report.EntriesWithoutForms)
	}

	if report.MedicationsWithoutAliases > 0 {
		logging.Info("Medications without aliases", "count", report.MedicationsWithoutAliases)
	}

	// Build replacement engines off to the side, then swap atomically
	classifier := formulation.NewClassifier(tables.Categories)
	idx := warnings.BuildIndexes(tables.Medications, tables.Entries, tables.Labels)
	resolver := warnings.NewResolver(idx, classifier)
	expander := shorthand.NewExpander(tables.Shorthand)

	s.dataStore.UpdateData(resolver, expander, report)

	medications, entries, labels := idx.Counts()
	elapsed := time.Since(start)
	logging.Info("Reference data update completed",
		"duration", elapsed.String(),
		"medications", medications,
		"entries", entries,
		"labels", labels,
	)

	return nil
}

// startHealthMonitoring monitors the health of the data updates
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Reference data hasn't been updated in over 25 hours")
			}
		}
	}()
}
