package data

import (
	"sync"
	"testing"

	"github.com/nicholasnlawson/dispensingpwa/formulation"
	"github.com/nicholasnlawson/dispensingpwa/interfaces"
	"github.com/nicholasnlawson/dispensingpwa/logging"
	"github.com/nicholasnlawson/dispensingpwa/shorthand"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

func TestNewDataContainer(t *testing.T) {
	logging.InitLogger("")

	dc := NewDataContainer()

	if dc == nil {
		t.Fatal("NewDataContainer returned nil")
	}

	if dc.IsUpdating() {
		t.Error("NewDataContainer should not be updating")
	}

	if !dc.GetLastUpdated().IsZero() {
		t.Error("NewDataContainer should have zero lastUpdated time")
	}

	if dc.GetServerStartTime().IsZero() {
		t.Error("NewDataContainer should record the server start time")
	}

	// The empty resolver answers queries without panicking
	if labels := dc.GetResolver().Resolve("Amoxicillin", "Capsule"); len(labels) != 0 {
		t.Errorf("Empty resolver should return no labels, got %v", labels)
	}

	// The default expander is usable immediately
	if got := dc.GetExpander().Expand("bd"); got != "TWICE a day" {
		t.Errorf("Default expander Expand(bd) = %q", got)
	}
}

func TestUpdateData(t *testing.T) {
	logging.InitLogger("")

	dc := NewDataContainer()

	medications := []warnings.MedicationRecord{{Name: "Amoxicillin"}}
	entries := []warnings.WarningEntry{
		{Names: []string{"Amoxicillin"}, Formulations: []string{"Capsule"}, LabelNumbers: []int{9}},
	}
	catalog := []warnings.WarningLabel{{Number: 9, Text: "Space the doses evenly throughout the day."}}

	resolver := warnings.NewResolver(warnings.BuildIndexes(medications, entries, catalog), formulation.NewClassifier(nil))
	expander := shorthand.NewExpander(map[string]string{"xx": "custom"})
	report := &interfaces.DataQualityReport{MedicationsWithoutAliases: 1}

	dc.UpdateData(resolver, expander, report)

	if dc.GetLastUpdated().IsZero() {
		t.Error("UpdateData should set lastUpdated")
	}

	if got := dc.GetResolver().Resolve("Amoxicillin", "Capsule"); len(got) != 1 || got[0] != 9 {
		t.Errorf("Resolver after update returned %v, expected [9]", got)
	}

	if got := dc.GetExpander().Expand("xx"); got != "custom" {
		t.Errorf("Expander after update Expand(xx) = %q", got)
	}

	if dc.GetQualityReport().MedicationsWithoutAliases != 1 {
		t.Error("Quality report was not swapped in")
	}
}

func TestUpdateDataNilArgumentsKeepCurrent(t *testing.T) {
	logging.InitLogger("")

	dc := NewDataContainer()
	before := dc.GetResolver()

	dc.UpdateData(nil, nil, nil)

	if dc.GetResolver() != before {
		t.Error("UpdateData(nil, ...) should keep the current resolver")
	}
	if dc.GetLastUpdated().IsZero() {
		t.Error("UpdateData should still refresh lastUpdated")
	}
}

func TestBeginEndUpdate(t *testing.T) {
	dc := NewDataContainer()

	if !dc.BeginUpdate() {
		t.Fatal("First BeginUpdate should succeed")
	}
	if dc.BeginUpdate() {
		t.Error("Second BeginUpdate should fail while update in progress")
	}
	if !dc.IsUpdating() {
		t.Error("IsUpdating should be true between Begin and End")
	}

	dc.EndUpdate()
	if dc.IsUpdating() {
		t.Error("IsUpdating should be false after EndUpdate")
	}
	if !dc.BeginUpdate() {
		t.Error("BeginUpdate should succeed again after EndUpdate")
	}
	dc.EndUpdate()
}

func TestConcurrentReadsDuringUpdate(t *testing.T) {
	logging.InitLogger("")

	dc := NewDataContainer()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				dc.GetResolver().Resolve("Tramadol", "Capsule")
				dc.GetExpander().Expand("1t bd")
			}
		}()
	}

	for i := 0; i < 20; i++ {
		resolver := warnings.NewResolver(warnings.BuildIndexes(nil, nil, nil), nil)
		dc.UpdateData(resolver, shorthand.NewExpander(nil), &interfaces.DataQualityReport{})
	}

	wg.Wait()
}
