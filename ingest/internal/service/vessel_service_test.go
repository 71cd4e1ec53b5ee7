package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/repository"
)

func TestVesselService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewVesselService(repository.NewInMemoryRepository(), discardLogger())

	created, err := svc.CreateVessel(ctx, &models.CreateVesselRequest{VesselID: testVessel, VesselName: "Northern Star"})
	require.NoError(t, err)
	assert.Equal(t, testVessel, created.VesselID)
	assert.True(t, created.IsActive)

	_, err = svc.CreateVessel(ctx, &models.CreateVesselRequest{VesselID: testVessel, VesselName: "Other"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, "Vessel IMO-9321483 already exists", err.Error())

	got, err := svc.GetVessel(ctx, testVessel)
	require.NoError(t, err)
	assert.Equal(t, "Northern Star", got.VesselName)

	list, err := svc.ListVessels(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeactivateVessel(ctx, testVessel))

	_, err = svc.GetVessel(ctx, testVessel)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, "Vessel IMO-9321483 not found", err.Error())

	err = svc.DeactivateVessel(ctx, testVessel)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestVesselService_CreateValidation(t *testing.T) {
	svc := NewVesselService(new(MockRepository), discardLogger())

	_, err := svc.CreateVessel(context.Background(), &models.CreateVesselRequest{VesselID: testVessel})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestVesselService_CreateRaceMapsToConflict(t *testing.T) {
	repo := new(MockRepository)
	svc := NewVesselService(repo, discardLogger())

	repo.On("FindActiveVessel", mock.Anything, testVessel).Return(nil, repository.ErrVesselNotFound)
	repo.On("CreateVessel", mock.Anything, mock.MatchedBy(func(v *models.Vessel) bool {
		return v.VesselID == testVessel && v.CorrelationID != nil && v.TraceID != nil
	})).Return(nil, repository.ErrVesselExists)

	_, err := svc.CreateVessel(context.Background(), &models.CreateVesselRequest{VesselID: testVessel, VesselName: "Northern Star"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	repo.AssertExpectations(t)
}

func TestVesselService_StoreFailure(t *testing.T) {
	repo := new(MockRepository)
	svc := NewVesselService(repo, discardLogger())
	repo.On("ListVessels", mock.Anything).Return(nil, errors.New("boom"))

	_, err := svc.ListVessels(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Database error: boom", err.Error())
}
