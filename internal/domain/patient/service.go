package patient

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no patient document matches the id.
	ErrNotFound = errors.New("patient not found")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]Patient, error) {
	return s.patients.ListByDoctor(ctx, doctorID)
}

// AppendMedicalNote appends {date, event} to the patient's medical history
// and returns the updated history. Existing entries are never edited or
// reordered.
func (s *Service) AppendMedicalNote(ctx context.Context, id, date, content string) ([]interface{}, error) {
	if content == "" || date == "" {
		return nil, fmt.Errorf("%w: note content and date are required", ErrInvalidInput)
	}

	updated, err := s.patients.Update(ctx, id, func(p Patient) (Patient, error) {
		p["medical_history"] = append(p.History(), map[string]interface{}{
			"date":  date,
			"event": content,
		})
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return updated.History(), nil
}

// AppendCarePlanItem appends a prescription or pending test to the care
// plan and returns the full updated patient document.
func (s *Service) AppendCarePlanItem(ctx context.Context, id, itemType, description string) (Patient, error) {
	if itemType == "" || description == "" {
		return nil, fmt.Errorf("%w: type and description are required", ErrInvalidInput)
	}

	var list string
	switch itemType {
	case ItemPrescription:
		list = prescriptionsList
	case ItemTest:
		list = pendingTestsList
	default:
		return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, itemType)
	}

	return s.patients.Update(ctx, id, func(p Patient) (Patient, error) {
		plan, _ := p[carePlanField].(map[string]interface{})
		if plan == nil {
			plan = map[string]interface{}{}
			p[carePlanField] = plan
		}
		items, _ := plan[list].([]interface{})
		plan[list] = append(items, description)
		return p, nil
	})
}

// Seed replaces the patient collection with the given documents, stamping
// each with the owning doctor's id.
func (s *Service) Seed(ctx context.Context, doctorID string, patients []Patient) error {
	if err := s.patients.Truncate(ctx); err != nil {
		return err
	}
	for _, p := range patients {
		p["doctorId"] = doctorID
	}
	return s.patients.InsertMany(ctx, patients)
}
