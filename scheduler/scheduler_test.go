package scheduler

import (
	"errors"
	"testing"

	"github.com/nicholasnlawson/dispensingpwa/data"
	"github.com/nicholasnlawson/dispensingpwa/logging"
	"github.com/nicholasnlawson/dispensingpwa/refdata"
	"github.com/nicholasnlawson/dispensingpwa/validation"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

// MockLoader implements interfaces.Loader for testing
type MockLoader struct {
	tables       *refdata.Tables
	loadErr      error
	refreshErr   error
	loadCalls    int
	refreshCalls int
}

func (m *MockLoader) Refresh() error {
	m.refreshCalls++
	return m.refreshErr
}

func (m *MockLoader) Load() (*refdata.Tables, error) {
	m.loadCalls++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.tables, nil
}

func testTables() *refdata.Tables {
	return &refdata.Tables{
		Medications: []warnings.MedicationRecord{
			{Name: "Amoxicillin", Aliases: []string{"Amoxil"}},
		},
		Entries: []warnings.WarningEntry{
			{Names: []string{"Amoxicillin"}, Formulations: []string{"Capsule"}, LabelNumbers: []int{9}},
		},
		Labels: []warnings.WarningLabel{
			{Number: 9, Text: "Space the doses evenly throughout the day. Keep taking this medicine until the course is finished, unless you are told to stop."},
		},
	}
}

func TestUpdateData(t *testing.T) {
	logging.InitLogger("")

	container := data.NewDataContainer()
	loader := &MockLoader{tables: testTables()}
	sched := NewScheduler(container, loader, validation.NewDataValidator())

	if err := sched.updateData(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if loader.refreshCalls != 1 || loader.loadCalls != 1 {
		t.Errorf("Expected one refresh and one load, got %d and %d", loader.refreshCalls, loader.loadCalls)
	}

	medications, entries, labels := container.GetIndex().Counts()
	if medications != 1 || entries != 1 || labels != 1 {
		t.Errorf("Expected counts 1/1/1, got %d/%d/%d", medications, entries, labels)
	}

	numbers := container.GetResolver().Resolve("Amoxil", "Capsule")
	if len(numbers) != 1 || numbers[0] != 9 {
		t.Errorf("Expected [9] after update, got %v", numbers)
	}
}

func TestUpdateDataLoadFailure(t *testing.T) {
	logging.InitLogger("")

	container := data.NewDataContainer()
	loader := &MockLoader{loadErr: errors.New("disk gone")}
	sched := NewScheduler(container, loader, validation.NewDataValidator())

	if err := sched.updateData(); err == nil {
		t.Fatal("Expected error when load fails")
	}

	// The empty engines stay in place
	if numbers := container.GetResolver().Resolve("Amoxil", "Capsule"); len(numbers) != 0 {
		t.Errorf("Expected empty resolver after failed load, got %v", numbers)
	}
	if container.IsUpdating() {
		t.Error("Expected update flag cleared after failure")
	}
}

func TestUpdateDataRefreshFailureIsNonFatal(t *testing.T) {
	logging.InitLogger("")

	container := data.NewDataContainer()
	loader := &MockLoader{tables: testTables(), refreshErr: errors.New("remote down")}
	sched := NewScheduler(container, loader, validation.NewDataValidator())

	if err := sched.updateData(); err != nil {
		t.Fatalf("Expected refresh failure to be tolerated, got %v", err)
	}

	if loader.loadCalls != 1 {
		t.Errorf("Expected load to proceed after refresh failure, got %d calls", loader.loadCalls)
	}
}

func TestUpdateDataSkipsWhenUpdating(t *testing.T) {
	logging.InitLogger("")

	container := data.NewDataContainer()
	loader := &MockLoader{tables: testTables()}
	sched := NewScheduler(container, loader, validation.NewDataValidator())

	if !container.BeginUpdate() {
		t.Fatal("Expected BeginUpdate to succeed")
	}
	defer container.EndUpdate()

	if err := sched.updateData(); err != nil {
		t.Fatalf("Expected concurrent update to be skipped silently, got %v", err)
	}
	if loader.loadCalls != 0 {
		t.Errorf("Expected no load while another update runs, got %d calls", loader.loadCalls)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	logging.InitLogger("")

	container := data.NewDataContainer()
	loader := &MockLoader{tables: testTables()}
	sched := NewScheduler(container, loader, validation.NewDataValidator())

	if err := sched.Start(); err != nil {
		t.Fatalf("Expected scheduler to start, got %v", err)
	}
	sched.Stop()

	if loader.loadCalls != 1 {
		t.Errorf("Expected initial load on start, got %d calls", loader.loadCalls)
	}
}
