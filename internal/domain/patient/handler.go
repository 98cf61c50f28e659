package patient

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Enricher produces model-derived views of a patient document. ClassifyRisk
// never fails: a model error degrades to the "Unknown" sentinel so one bad
// call cannot break the whole patient list.
type Enricher interface {
	ClassifyRisk(ctx context.Context, doc map[string]interface{}) string
	SummarizeAndInsight(ctx context.Context, doc map[string]interface{}) (summary, insights string, err error)
}

type Handler struct {
	svc *Service
	ai  Enricher
}

func NewHandler(svc *Service, ai Enricher) *Handler {
	return &Handler{svc: svc, ai: ai}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:doctorId", h.ListByDoctor)
	api.GET("/patient/:id", h.Get)
	api.POST("/patient/:id/notes", h.AddNote)
	api.POST("/patient/:id/careplan", h.AddCarePlanItem)
}

// ListByDoctor returns the doctor's patients, each scored by the model.
// Scoring is sequential: latency grows linearly with list size.
func (h *Handler) ListByDoctor(c echo.Context) error {
	ctx := c.Request().Context()
	patients, err := h.svc.ListByDoctor(ctx, c.Param("doctorId"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load patients"})
	}

	enriched := make([]Patient, 0, len(patients))
	for _, p := range patients {
		p["riskScore"] = h.ai.ClassifyRisk(ctx, p)
		enriched = append(enriched, p)
	}
	return c.JSON(http.StatusOK, enriched)
}

func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load patient"})
	}

	summary, insights, err := h.ai.SummarizeAndInsight(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get AI analysis for patient."})
	}
	p["ai_summary"] = summary
	p["ai_insights"] = insights
	return c.JSON(http.StatusOK, p)
}

type addNoteRequest struct {
	NoteContent string `json:"note_content"`
	NoteDate    string `json:"note_date"`
}

func (h *Handler) AddNote(c echo.Context) error {
	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	history, err := h.svc.AppendMedicalNote(c.Request().Context(), c.Param("id"), req.NoteDate, req.NoteContent)
	switch {
	case errors.Is(err, ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing note content or date"})
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to add note"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Note added successfully",
		"new_history": history,
	})
}

type addCarePlanRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (h *Handler) AddCarePlanItem(c echo.Context) error {
	var req addCarePlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	p, err := h.svc.AppendCarePlanItem(c.Request().Context(), c.Param("id"), req.Type, req.Description)
	switch {
	case errors.Is(err, ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid item type or missing description"})
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update care plan"})
	}

	return c.JSON(http.StatusOK, p)
}
