package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chatdesk/internal/dto"
	"chatdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var storedCreatedAt = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

type fakeDepartmentStore struct {
	created []models.Department
	updated []models.Department
	deleted []uuid.UUID
	err     error
}

func (f *fakeDepartmentStore) Create(_ context.Context, dept *models.Department) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *dept)
	return nil
}

func (f *fakeDepartmentStore) Update(_ context.Context, dept *models.Department) error {
	if f.err != nil {
		return f.err
	}
	// The repository reads created_at back on update.
	dept.CreatedAt = storedCreatedAt
	f.updated = append(f.updated, *dept)
	return nil
}

func (f *fakeDepartmentStore) Delete(_ context.Context, _, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDepartmentStore) List(_ context.Context, _ uuid.UUID) ([]models.Department, error) {
	return nil, f.err
}

type fakeInvalidator struct {
	invalidated []uuid.UUID
}

func (f *fakeInvalidator) Invalidate(clientID uuid.UUID) {
	f.invalidated = append(f.invalidated, clientID)
}

func updateRequest(name string) *dto.UpdateDepartmentRequest {
	return &dto.UpdateDepartmentRequest{
		Name:           name,
		Keywords:       []string{"invoice"},
		CannedResponse: "We will check your invoice.",
		Recipient:      "billing@demo.com",
	}
}

func TestDepartmentCreateRejectsReservedName(t *testing.T) {
	for _, name := range []string{"GENERAL", "general", " General "} {
		t.Run(name, func(t *testing.T) {
			store := &fakeDepartmentStore{}
			invalidator := &fakeInvalidator{}
			svc := NewDepartmentService(store, invalidator, zap.NewNop())

			req := &dto.CreateDepartmentRequest{Name: name, CannedResponse: "hello"}
			dept, err := svc.Create(context.Background(), uuid.New(), req)

			assert.ErrorIs(t, err, ErrReservedName)
			assert.Nil(t, dept)
			assert.Empty(t, store.created)
			assert.Empty(t, invalidator.invalidated)
		})
	}
}

func TestDepartmentUpdateRejectsReservedName(t *testing.T) {
	for _, name := range []string{"GENERAL", "general", " General "} {
		t.Run(name, func(t *testing.T) {
			store := &fakeDepartmentStore{}
			invalidator := &fakeInvalidator{}
			svc := NewDepartmentService(store, invalidator, zap.NewNop())

			dept, err := svc.Update(context.Background(), uuid.New(), uuid.New(), updateRequest(name))

			assert.ErrorIs(t, err, ErrReservedName)
			assert.Nil(t, dept)
			assert.Empty(t, store.updated)
			assert.Empty(t, invalidator.invalidated)
		})
	}
}

func TestDepartmentCreateInvalidatesCache(t *testing.T) {
	store := &fakeDepartmentStore{}
	invalidator := &fakeInvalidator{}
	svc := NewDepartmentService(store, invalidator, zap.NewNop())
	clientID := uuid.New()

	req := &dto.CreateDepartmentRequest{Name: "  BILLING  ", CannedResponse: "hello", Recipient: "billing@demo.com"}
	dept, err := svc.Create(context.Background(), clientID, req)

	require.NoError(t, err)
	assert.Equal(t, "BILLING", dept.Name)
	require.Len(t, store.created, 1)
	assert.Equal(t, []uuid.UUID{clientID}, invalidator.invalidated)
}

func TestDepartmentUpdateInvalidatesCacheAndKeepsCreatedAt(t *testing.T) {
	store := &fakeDepartmentStore{}
	invalidator := &fakeInvalidator{}
	svc := NewDepartmentService(store, invalidator, zap.NewNop())
	clientID := uuid.New()

	dept, err := svc.Update(context.Background(), clientID, uuid.New(), updateRequest("BILLING"))

	require.NoError(t, err)
	assert.Equal(t, storedCreatedAt, dept.CreatedAt, "update must return the row's original created_at")
	assert.Equal(t, []uuid.UUID{clientID}, invalidator.invalidated)
}

func TestDepartmentDeleteInvalidatesCache(t *testing.T) {
	store := &fakeDepartmentStore{}
	invalidator := &fakeInvalidator{}
	svc := NewDepartmentService(store, invalidator, zap.NewNop())
	clientID := uuid.New()
	id := uuid.New()

	require.NoError(t, svc.Delete(context.Background(), clientID, id))
	assert.Equal(t, []uuid.UUID{id}, store.deleted)
	assert.Equal(t, []uuid.UUID{clientID}, invalidator.invalidated)
}

func TestDepartmentWriteFailureSkipsInvalidation(t *testing.T) {
	store := &fakeDepartmentStore{err: errors.New("db down")}
	invalidator := &fakeInvalidator{}
	svc := NewDepartmentService(store, invalidator, zap.NewNop())

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), updateRequest("BILLING"))

	assert.Error(t, err)
	assert.Empty(t, invalidator.invalidated)
}
