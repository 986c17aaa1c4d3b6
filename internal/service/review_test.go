package service_test

import (
	"context"
	"testing"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	store     *fakeStore
	svc       *service.ReviewService
	orgID     uuid.UUID
	therapist *model.Therapist
	patient   *model.Patient
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	store := newFakeStore()
	orgID := uuid.New()

	therapist := &model.Therapist{ID: uuid.New(), UserID: uuid.New(), OrganizationID: orgID, Name: "Dr. Rivera"}
	store.therapists[therapist.ID] = therapist

	patient := &model.Patient{ID: uuid.New(), UserID: uuid.New(), OrganizationID: orgID}
	store.patients[patient.ID] = patient

	svc := service.NewReviewService(
		&fakeReviewRepo{store: store},
		&fakeTherapistRepo{store: store},
		&fakePatientRepo{store: store},
	)
	return &reviewFixture{store: store, svc: svc, orgID: orgID, therapist: therapist, patient: patient}
}

func (f *reviewFixture) patientActor() service.Actor {
	return service.Actor{UserID: f.patient.UserID, Role: model.OrgRolePatient}
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("patient reviews a therapist once", func(t *testing.T) {
		f := newReviewFixture(t)

		review, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateReviewInput{
			TherapistID: f.therapist.ID,
			Rating:      5,
			Comment:     "Very helpful",
		})
		require.NoError(t, err)
		assert.Equal(t, f.patient.ID, review.PatientID)
	})

	t.Run("second review for the same pair leaves the first untouched", func(t *testing.T) {
		f := newReviewFixture(t)

		first, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateReviewInput{
			TherapistID: f.therapist.ID,
			Rating:      5,
			Comment:     "Very helpful",
		})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateReviewInput{
			TherapistID: f.therapist.ID,
			Rating:      1,
			Comment:     "Changed my mind",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateReview)

		require.Len(t, f.store.reviews, 1)
		assert.Equal(t, first.ID, f.store.reviews[0].ID)
		assert.Equal(t, int16(5), f.store.reviews[0].Rating)
		assert.Equal(t, "Very helpful", f.store.reviews[0].Comment)
	})

	t.Run("rating bounds", func(t *testing.T) {
		f := newReviewFixture(t)

		for _, rating := range []int16{0, 6} {
			_, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateReviewInput{
				TherapistID: f.therapist.ID,
				Rating:      rating,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		}
	})

	t.Run("patient cannot file as someone else", func(t *testing.T) {
		f := newReviewFixture(t)

		other := &model.Patient{ID: uuid.New(), UserID: uuid.New(), OrganizationID: f.orgID}
		f.store.patients[other.ID] = other

		_, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateReviewInput{
			TherapistID: f.therapist.ID,
			PatientID:   &other.ID,
			Rating:      4,
		})
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("admin files on behalf of a patient", func(t *testing.T) {
		f := newReviewFixture(t)

		review, err := f.svc.Create(ctx, adminActor(), f.orgID, service.CreateReviewInput{
			TherapistID: f.therapist.ID,
			PatientID:   &f.patient.ID,
			Rating:      4,
		})
		require.NoError(t, err)
		assert.Equal(t, f.patient.ID, review.PatientID)
	})

	t.Run("cross-tenant therapist is not found", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.svc.Create(ctx, f.patientActor(), uuid.New(), service.CreateReviewInput{
			TherapistID: f.therapist.ID,
			Rating:      4,
		})
		assert.ErrorIs(t, err, domain.ErrTherapistNotFound)
	})
}

func TestListReviews(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	_, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateReviewInput{
		TherapistID: f.therapist.ID,
		Rating:      5,
	})
	require.NoError(t, err)

	reviews, err := f.svc.List(ctx, f.orgID, service.ListReviewsInput{TherapistID: &f.therapist.ID})
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	reviews, err = f.svc.List(ctx, uuid.New(), service.ListReviewsInput{})
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
