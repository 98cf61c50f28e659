package patient

import (
	"context"
	"errors"

	"github.com/synopticmd/api/internal/platform/docstore"
)

const patientsCollection = "patients"

type storeRepo struct {
	store docstore.Store
}

func NewStoreRepo(store docstore.Store) Repository {
	return &storeRepo{store: store}
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (Patient, error) {
	doc, err := r.store.FindOne(ctx, patientsCollection, "id", id)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Patient(doc), nil
}

func (r *storeRepo) ListByDoctor(ctx context.Context, doctorID string) ([]Patient, error) {
	docs, err := r.store.Find(ctx, patientsCollection, "doctorId", doctorID)
	if err != nil {
		return nil, err
	}
	patients := make([]Patient, 0, len(docs))
	for _, doc := range docs {
		patients = append(patients, Patient(doc))
	}
	return patients, nil
}

func (r *storeRepo) Update(ctx context.Context, id string, fn func(Patient) (Patient, error)) (Patient, error) {
	doc, err := r.store.Apply(ctx, patientsCollection, "id", id, func(doc docstore.Document) (docstore.Document, error) {
		updated, err := fn(Patient(doc))
		if err != nil {
			return nil, err
		}
		return docstore.Document(updated), nil
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Patient(doc), nil
}

func (r *storeRepo) InsertMany(ctx context.Context, patients []Patient) error {
	docs := make([]docstore.Document, 0, len(patients))
	for _, p := range patients {
		docs = append(docs, docstore.Document(p))
	}
	_, err := r.store.InsertMany(ctx, patientsCollection, docs)
	return err
}

func (r *storeRepo) Truncate(ctx context.Context) error {
	return r.store.Truncate(ctx, patientsCollection)
}
