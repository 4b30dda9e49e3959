// Package handlers provides HTTP request handlers for the labels API endpoints.
// It includes handlers for warning label resolution, catalog lookup, shorthand
// expansion, formulation classification and health checks, with input
// validation and consistent JSON error responses.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nicholasnlawson/dispensingpwa/interfaces"
	"github.com/nicholasnlawson/dispensingpwa/logging"
	"github.com/nicholasnlawson/dispensingpwa/metrics"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore interfaces.DataStore
	validator interfaces.DataValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, health interfaces.HealthChecker) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		dataStore: dataStore,
		validator: validator,
		health:    health,
	}
}

// ResolveResponse is the payload for a label resolution
type ResolveResponse struct {
	Drug         string                  `json:"drug"`
	Formulation  string                  `json:"formulation"`
	LabelNumbers []int                   `json:"labelNumbers"`
	Labels       []warnings.WarningLabel `json:"labels"`
}

// ExpandResponse is the payload for a shorthand expansion
type ExpandResponse struct {
	Code     string `json:"code"`
	Expanded string `json:"expanded"`
	Changed  bool   `json:"changed"`
}

// ClassifyResponse is the payload for a formulation classification
type ClassifyResponse struct {
	Formulation string `json:"formulation"`
	Category    string `json:"category"`
}

// HealthResponseImpl defines the structure for consistent JSON ordering
type HealthResponseImpl struct {
	Status        string         `json:"status"`
	LastUpdate    string         `json:"last_update"`
	DataAgeHours  float64        `json:"data_age_hours"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// urlParam returns a chi URL parameter with percent-encoding removed.
// Drug names and shorthand codes carry spaces and slashes, which arrive
// escaped in the route path.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// ResolveLabels maps a drug name and formulation to warning label numbers
func (h *HTTPHandlerImpl) ResolveLabels(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	form := urlParam(r, "form")
	if drug == "" || form == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing drug name or formulation")
		return
	}

	if err := h.validator.ValidateInput(drug); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.ValidateInput(form); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	resolver := h.dataStore.GetResolver()
	numbers := resolver.Resolve(drug, form)
	labels := resolver.ResolveLabels(drug, form)

	metrics.ObserveResolution(len(numbers) > 0)
	if len(numbers) == 0 {
		logging.Debug("No warning labels matched", "drug", drug, "form", form)
	}

	// Always return 200 with a result (empty arrays if no matches)
	h.RespondWithJSON(w, http.StatusOK, ResolveResponse{
		Drug:         drug,
		Formulation:  form,
		LabelNumbers: numbers,
		Labels:       labels,
	})
}

// ServeCatalog returns the full warning label catalog
func (h *HTTPHandlerImpl) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := h.dataStore.GetIndex().Catalog()
	h.RespondWithJSON(w, http.StatusOK, catalog)
}

// FindLabel returns a single catalog label by number
func (h *HTTPHandlerImpl) FindLabel(w http.ResponseWriter, r *http.Request) {
	numberStr := urlParam(r, "number")

	number, err := h.validator.ValidateLabelNumber(numberStr)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	label, ok := h.dataStore.GetIndex().Label(number)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Label not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, label)
}

// ExpandShorthand translates a dosage shorthand code into plain language
func (h *HTTPHandlerImpl) ExpandShorthand(w http.ResponseWriter, r *http.Request) {
	code := urlParam(r, "code")
	if code == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing shorthand code")
		return
	}

	if err := h.validator.ValidateInput(code); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	expanded := h.dataStore.GetExpander().Expand(code)
	changed := expanded != strings.TrimSpace(code)

	metrics.ObserveExpansion(changed)
	if !changed {
		logging.Debug("Shorthand not recognized", "code", code)
	}

	h.RespondWithJSON(w, http.StatusOK, ExpandResponse{
		Code:     code,
		Expanded: expanded,
		Changed:  changed,
	})
}

// ClassifyFormulation maps a free-text dosage form to its category
func (h *HTTPHandlerImpl) ClassifyFormulation(w http.ResponseWriter, r *http.Request) {
	text := urlParam(r, "text")
	if text == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing formulation text")
		return
	}

	if err := h.validator.ValidateInput(text); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := h.dataStore.GetClassifier().Classify(text)

	h.RespondWithJSON(w, http.StatusOK, ClassifyResponse{
		Formulation: text,
		Category:    category,
	})
}

// ServeMedications returns every known medication record
func (h *HTTPHandlerImpl) ServeMedications(w http.ResponseWriter, r *http.Request) {
	medications := h.dataStore.GetIndex().Medications()
	h.RespondWithJSON(w, http.StatusOK, medications)
}

// FindMedication looks up a medication record by name or alias
func (h *HTTPHandlerImpl) FindMedication(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	if name == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing medication name")
		return
	}

	if err := h.validator.ValidateInput(name); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, ok := h.dataStore.GetIndex().LookupMedication(name)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Medication not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, record)
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.dataStore.GetServerStartTime())

	healthStatus, healthData, httpStatus := h.health.HealthCheck()
	lastUpdate := h.dataStore.GetLastUpdated()
	dataAge := time.Since(lastUpdate)

	healthData["api_version"] = "1.0"
	healthData["next_update"] = h.health.CalculateNextUpdate().Format(time.RFC3339)

	response := HealthResponseImpl{
		Status:        healthStatus,
		LastUpdate:    lastUpdate.Format(time.RFC3339),
		DataAgeHours:  dataAge.Hours(),
		UptimeSeconds: uptime.Seconds(),
		Data:          healthData,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
