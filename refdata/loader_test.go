package refdata

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const (
	testMedications = `[
		{"name": "Amoxicillin", "aliases": ["Amoxil"]},
		{"name": "", "aliases": ["broken"]},
		{"name": "Tramadol Hydrochloride", "aliases": ["Tramadol", "Zydol"]}
	]`
	testEntries = `[
		{"names": ["Amoxicillin"], "formulations": ["Oral capsule"], "labelNumbers": [9]},
		{"names": [], "formulations": ["Tablet"], "labelNumbers": [1]},
		{"names": ["Tramadol"], "formulations": ["Modified-release tablet"], "labelNumbers": []},
		{"names": ["Tramadol"], "formulations": ["Modified-release tablet"], "labelNumbers": [2, 25]}
	]`
	testLabels = `[
		{"labelNumber": 9, "text": "Space the doses evenly throughout the day."},
		{"labelNumber": 0, "text": "Broken row"},
		{"labelNumber": 2, "text": "Warning: This medicine may make you sleepy."}
	]`
	testCategories = `[
		{"key": "oral_capsule", "aliases": ["capsule", "cap"]}
	]`
)

func writeTestTables(t *testing.T, dir string, withOptional bool) {
	t.Helper()

	files := map[string]string{
		MedicationsFile: testMedications,
		WarningsFile:    testEntries,
		LabelsFile:      testLabels,
	}
	if withOptional {
		files[FormulationsFile] = testCategories
		files[ShorthandFile] = `{"bd": "TWICE a day"}`
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func TestLoadFiltersMalformedRows(t *testing.T) {
	dir := t.TempDir()
	writeTestTables(t, dir, false)

	tables, err := NewLoader(dir, "").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(tables.Medications) != 2 {
		t.Errorf("Expected 2 medications after filtering, got %d", len(tables.Medications))
	}
	if len(tables.Entries) != 2 {
		t.Errorf("Expected 2 warning entries after filtering, got %d", len(tables.Entries))
	}
	if len(tables.Labels) != 2 {
		t.Errorf("Expected 2 labels after filtering, got %d", len(tables.Labels))
	}
	if tables.Categories != nil {
		t.Error("Expected nil categories when formulation table absent")
	}
	if tables.Shorthand != nil {
		t.Error("Expected nil shorthand when code table absent")
	}
}

func TestLoadOptionalTables(t *testing.T) {
	dir := t.TempDir()
	writeTestTables(t, dir, true)

	tables, err := NewLoader(dir, "").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(tables.Categories) != 1 || tables.Categories[0].Key != "oral_capsule" {
		t.Errorf("Expected loaded formulation table, got %+v", tables.Categories)
	}
	if tables.Shorthand["bd"] != "TWICE a day" {
		t.Errorf("Expected loaded shorthand table, got %+v", tables.Shorthand)
	}
}

func TestLoadMissingRequiredTable(t *testing.T) {
	dir := t.TempDir()
	// Only labels present
	if err := os.WriteFile(filepath.Join(dir, LabelsFile), []byte(testLabels), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(dir, "").Load(); err == nil {
		t.Error("Expected error when medication table is missing")
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeTestTables(t, dir, false)
	if err := os.WriteFile(filepath.Join(dir, MedicationsFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(dir, "").Load(); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestDecodeUTF8(t *testing.T) {
	utf8Input := []byte(`{"name": "Paracétamol"}`)
	decoded, err := DecodeUTF8(utf8Input)
	if err != nil {
		t.Fatalf("DecodeUTF8 failed: %v", err)
	}
	if string(decoded) != string(utf8Input) {
		t.Error("Valid UTF-8 should pass through unchanged")
	}

	// "Paracétamol" with é encoded as ISO-8859-1 (0xE9)
	latin1Input := []byte("Parac\xe9tamol")
	decoded, err = DecodeUTF8(latin1Input)
	if err != nil {
		t.Fatalf("DecodeUTF8 failed for latin-1: %v", err)
	}
	if string(decoded) != "Paracétamol" {
		t.Errorf("Expected transcoded UTF-8, got %q", decoded)
	}
}

func TestRefreshDownloadsFiles(t *testing.T) {
	payloads := map[string]string{
		"/" + MedicationsFile: testMedications,
		"/" + WarningsFile:    testEntries,
		"/" + LabelsFile:      testLabels,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := payloads[r.URL.Path]
		if !ok {
			// Optional files are not published
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	dir := t.TempDir()
	loader := NewLoader(dir, server.URL)

	if err := loader.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	tables, err := loader.Load()
	if err != nil {
		t.Fatalf("Load after refresh failed: %v", err)
	}
	if len(tables.Medications) != 2 {
		t.Errorf("Expected 2 medications, got %d", len(tables.Medications))
	}
}

func TestRefreshWithoutBaseURL(t *testing.T) {
	if err := NewLoader(t.TempDir(), "").Refresh(); err != nil {
		t.Errorf("Refresh without base URL should be a no-op, got %v", err)
	}
}

func TestRefreshRequiredFileMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	if err := NewLoader(t.TempDir(), server.URL).Refresh(); err == nil {
		t.Error("Expected error when a required reference file is not published")
	}
}
