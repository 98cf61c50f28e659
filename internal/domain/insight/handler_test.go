package insight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/synopticmd/api/internal/domain/patient"
	"github.com/synopticmd/api/internal/platform/docstore"
)

func newInsightAPI(t *testing.T, m *mockModel, patients ...patient.Patient) *echo.Echo {
	t.Helper()
	repo := patient.NewStoreRepo(docstore.NewMemStore())
	if len(patients) > 0 {
		if err := repo.InsertMany(context.Background(), patients); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	e := echo.New()
	gw := NewGateway(m, zerolog.Nop())
	NewHandler(gw, patient.NewService(repo)).RegisterRoutes(e.Group("/api"))
	return e
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStreamlineNote(t *testing.T) {
	m := &mockModel{reply: "**Subjective:** Chest pain for two days."}
	e := newInsightAPI(t, m)

	rec := doRequest(t, e, http.MethodPost, "/api/streamline_note",
		`{"notes":"pt complains of chest pain for 2 days"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if got["formatted_note"] != "**Subjective:** Chest pain for two days." {
		t.Errorf("unexpected note: %q", got["formatted_note"])
	}
}

func TestStreamlineNote_EmptyNotes(t *testing.T) {
	e := newInsightAPI(t, &mockModel{})

	rec := doRequest(t, e, http.MethodPost, "/api/streamline_note", `{"notes":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No notes provided") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestStreamlineNote_ModelFailure(t *testing.T) {
	e := newInsightAPI(t, &mockModel{err: errors.New("quota exceeded")})

	rec := doRequest(t, e, http.MethodPost, "/api/streamline_note", `{"notes":"bp 150/90"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to format note.") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestChat(t *testing.T) {
	m := &mockModel{reply: "The last HbA1c was 8.2."}
	e := newInsightAPI(t, m, patient.Patient{"id": "P1", "doctorId": "d1", "name": "Jane"})

	rec := doRequest(t, e, http.MethodPost, "/api/chat",
		`{"question":"What was the last HbA1c?","patientId":"P1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if got["answer"] != "The last HbA1c was 8.2." {
		t.Errorf("unexpected answer: %q", got["answer"])
	}
	if !strings.Contains(m.prompt, `"name": "Jane"`) {
		t.Errorf("patient data not in prompt: %s", m.prompt)
	}
}

func TestChat_MissingFields(t *testing.T) {
	e := newInsightAPI(t, &mockModel{})

	for _, body := range []string{
		`{"question":"","patientId":"P1"}`,
		`{"question":"Any allergies?","patientId":""}`,
	} {
		rec := doRequest(t, e, http.MethodPost, "/api/chat", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestChat_PatientNotFound(t *testing.T) {
	e := newInsightAPI(t, &mockModel{})

	rec := doRequest(t, e, http.MethodPost, "/api/chat",
		`{"question":"Any allergies?","patientId":"missing"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Patient not found") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestChat_ModelFailure(t *testing.T) {
	e := newInsightAPI(t, &mockModel{err: errors.New("timeout")},
		patient.Patient{"id": "P1", "doctorId": "d1"})

	rec := doRequest(t, e, http.MethodPost, "/api/chat",
		`{"question":"Any allergies?","patientId":"P1"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to get chat response.") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestPrognosis(t *testing.T) {
	m := &mockModel{reply: "### Risk 1: CKD progression"}
	e := newInsightAPI(t, m, patient.Patient{"id": "P1", "doctorId": "d1"})

	rec := doRequest(t, e, http.MethodGet, "/api/patient/P1/prognosis", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if got["prognosis_report"] != "### Risk 1: CKD progression" {
		t.Errorf("unexpected report: %q", got["prognosis_report"])
	}
}

func TestPrognosis_PatientNotFound(t *testing.T) {
	e := newInsightAPI(t, &mockModel{})

	rec := doRequest(t, e, http.MethodGet, "/api/patient/missing/prognosis", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPrognosis_ModelFailure(t *testing.T) {
	e := newInsightAPI(t, &mockModel{err: errors.New("unavailable")},
		patient.Patient{"id": "P1", "doctorId": "d1"})

	rec := doRequest(t, e, http.MethodGet, "/api/patient/P1/prognosis", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to generate prognosis report.") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
