package patient

import "context"

type Repository interface {
	// GetByID returns the patient document, or ErrNotFound.
	GetByID(ctx context.Context, id string) (Patient, error)
	// ListByDoctor returns all patients owned by the doctor, in insertion
	// order; an empty slice when none.
	ListByDoctor(ctx context.Context, doctorID string) ([]Patient, error)
	// Update atomically rewrites the patient document through fn.
	Update(ctx context.Context, id string, fn func(Patient) (Patient, error)) (Patient, error)
	// InsertMany stores patient documents in order.
	InsertMany(ctx context.Context, patients []Patient) error
	// Truncate deletes every patient.
	Truncate(ctx context.Context) error
}
