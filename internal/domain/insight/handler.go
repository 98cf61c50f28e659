package insight

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synopticmd/api/internal/domain/patient"
)

// Gateway doubles as the patient package's enricher.
var _ patient.Enricher = (*Gateway)(nil)

type Handler struct {
	gw       *Gateway
	patients *patient.Service
}

func NewHandler(gw *Gateway, patients *patient.Service) *Handler {
	return &Handler{gw: gw, patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/streamline_note", h.StreamlineNote)
	api.POST("/chat", h.Chat)
	api.GET("/patient/:id/prognosis", h.Prognosis)
}

type streamlineRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) StreamlineNote(c echo.Context) error {
	var req streamlineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	formatted, err := h.gw.FormatSOAPNote(c.Request().Context(), req.Notes)
	switch {
	case errors.Is(err, ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No notes provided"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to format note."})
	}

	return c.JSON(http.StatusOK, map[string]string{"formatted_note": formatted})
}

type chatRequest struct {
	Question  string `json:"question"`
	PatientID string `json:"patientId"`
}

func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.Question == "" || req.PatientID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing fields"})
	}

	p, err := h.patients.GetByID(c.Request().Context(), req.PatientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load patient"})
	}

	answer, err := h.gw.AnswerQuestion(c.Request().Context(), req.Question, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get chat response."})
	}
	return c.JSON(http.StatusOK, map[string]string{"answer": answer})
}

func (h *Handler) Prognosis(c echo.Context) error {
	p, err := h.patients.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load patient"})
	}

	report, err := h.gw.GeneratePrognosis(c.Request().Context(), p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate prognosis report."})
	}
	return c.JSON(http.StatusOK, map[string]string{"prognosis_report": report})
}
