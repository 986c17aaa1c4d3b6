package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	store       *fakeStore
	svc         *service.BookingService
	orgID       uuid.UUID
	otherOrgID  uuid.UUID
	therapist   *model.Therapist
	patient     *model.Patient
	therapistID uuid.UUID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	store := newFakeStore()

	orgID := uuid.New()
	otherOrgID := uuid.New()

	therapist := &model.Therapist{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		OrganizationID: orgID,
		Email:          "t@clinic.test",
		Name:           "Dr. Rivera",
		Verification:   model.VerificationVerified,
		HourlyRate:     12000, // $120/hr
	}
	store.therapists[therapist.ID] = therapist

	patient := &model.Patient{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		OrganizationID: orgID,
	}
	store.patients[patient.ID] = patient

	svc := service.NewBookingService(
		&fakeBookingRepo{store: store},
		&fakeTherapistRepo{store: store},
		&fakePatientRepo{store: store},
		&fakeAvailabilityRepo{store: store},
	)

	return &bookingFixture{
		store:       store,
		svc:         svc,
		orgID:       orgID,
		otherOrgID:  otherOrgID,
		therapist:   therapist,
		patient:     patient,
		therapistID: therapist.ID,
	}
}

func (f *bookingFixture) patientActor() service.Actor {
	return service.Actor{UserID: f.patient.UserID, Role: model.OrgRolePatient}
}

func (f *bookingFixture) therapistActor() service.Actor {
	return service.Actor{UserID: f.therapist.UserID, Role: model.OrgRoleTherapist}
}

func adminActor() service.Actor {
	return service.Actor{UserID: uuid.New(), Role: model.OrgRoleAdmin}
}

func TestBookingCreate(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("patient books and price is frozen from hourly rate", func(t *testing.T) {
		f := newBookingFixture(t)

		booking, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start,
			EndAt:       start.Add(50 * time.Minute),
		})
		require.NoError(t, err)

		assert.Equal(t, model.BookingRequested, booking.Status)
		assert.Equal(t, f.patient.ID, booking.PatientID)
		assert.Equal(t, int64(12000), booking.HourlyRate)
		// $120/hr for 50 minutes = $100.00
		assert.Equal(t, int64(10000), booking.TotalAmount)
	})

	t.Run("overlapping interval is rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start,
			EndAt:       start.Add(time.Hour),
		})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start.Add(30 * time.Minute),
			EndAt:       start.Add(90 * time.Minute),
		})
		assert.ErrorIs(t, err, domain.ErrBookingConflict)
	})

	t.Run("back to back intervals do not conflict", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start,
			EndAt:       start.Add(time.Hour),
		})
		require.NoError(t, err)

		// [10:00, 11:00) then [11:00, 12:00): half-open intervals touch but
		// do not intersect.
		_, err = f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start.Add(time.Hour),
			EndAt:       start.Add(2 * time.Hour),
		})
		assert.NoError(t, err)
	})

	t.Run("cancelled booking frees its interval", func(t *testing.T) {
		f := newBookingFixture(t)

		first, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start,
			EndAt:       start.Add(time.Hour),
		})
		require.NoError(t, err)

		_, err = f.svc.Transition(ctx, f.patientActor(), f.orgID, first.ID, model.BookingCancelled)
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start,
			EndAt:       start.Add(time.Hour),
		})
		assert.NoError(t, err)
	})

	t.Run("therapist from another organization is not found", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create(ctx, f.patientActor(), f.otherOrgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start,
			EndAt:       start.Add(time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrTherapistNotFound)
	})

	t.Run("admin books on behalf of a patient", func(t *testing.T) {
		f := newBookingFixture(t)

		booking, err := f.svc.Create(ctx, adminActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			PatientID:   &f.patient.ID,
			StartAt:     start,
			EndAt:       start.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, f.patient.ID, booking.PatientID)
	})

	t.Run("patient cannot book for another patient", func(t *testing.T) {
		f := newBookingFixture(t)

		other := &model.Patient{ID: uuid.New(), UserID: uuid.New(), OrganizationID: f.orgID}
		f.store.patients[other.ID] = other

		_, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			PatientID:   &other.ID,
			StartAt:     start,
			EndAt:       start.Add(time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("end before start is invalid", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start,
			EndAt:       start.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestBookingTransitions(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	create := func(t *testing.T, f *bookingFixture) *model.Booking {
		t.Helper()
		booking, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
			TherapistID: f.therapistID,
			StartAt:     start,
			EndAt:       start.Add(time.Hour),
		})
		require.NoError(t, err)
		return booking
	}

	t.Run("requested to confirmed to completed", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := create(t, f)

		booking, err := f.svc.Transition(ctx, f.therapistActor(), f.orgID, booking.ID, model.BookingConfirmed)
		require.NoError(t, err)
		assert.Equal(t, model.BookingConfirmed, booking.Status)

		booking, err = f.svc.Transition(ctx, f.therapistActor(), f.orgID, booking.ID, model.BookingCompleted)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCompleted, booking.Status)
	})

	t.Run("requested cannot jump to completed", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := create(t, f)

		_, err := f.svc.Transition(ctx, f.therapistActor(), f.orgID, booking.ID, model.BookingCompleted)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := create(t, f)

		_, err := f.svc.Transition(ctx, f.patientActor(), f.orgID, booking.ID, model.BookingCancelled)
		require.NoError(t, err)

		_, err = f.svc.Transition(ctx, f.therapistActor(), f.orgID, booking.ID, model.BookingConfirmed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		_, err = f.svc.Transition(ctx, f.patientActor(), f.orgID, booking.ID, model.BookingCancelled)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("patient cannot confirm", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := create(t, f)

		_, err := f.svc.Transition(ctx, f.patientActor(), f.orgID, booking.ID, model.BookingConfirmed)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("either party may cancel", func(t *testing.T) {
		f := newBookingFixture(t)

		booking := create(t, f)
		_, err := f.svc.Transition(ctx, f.therapistActor(), f.orgID, booking.ID, model.BookingCancelled)
		assert.NoError(t, err)
	})

	t.Run("admin may confirm", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := create(t, f)

		_, err := f.svc.Transition(ctx, adminActor(), f.orgID, booking.ID, model.BookingConfirmed)
		assert.NoError(t, err)
	})

	t.Run("non-party patient gets not found", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := create(t, f)

		stranger := &model.Patient{ID: uuid.New(), UserID: uuid.New(), OrganizationID: f.orgID}
		f.store.patients[stranger.ID] = stranger

		_, err := f.svc.Transition(ctx, service.Actor{UserID: stranger.UserID, Role: model.OrgRolePatient}, f.orgID, booking.ID, model.BookingCancelled)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("booking invisible from another organization", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := create(t, f)

		_, err := f.svc.Get(ctx, adminActor(), f.otherOrgID, booking.ID)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}

func TestBookingList(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	f := newBookingFixture(t)

	// Second patient with their own booking.
	other := &model.Patient{ID: uuid.New(), UserID: uuid.New(), OrganizationID: f.orgID}
	f.store.patients[other.ID] = other

	_, err := f.svc.Create(ctx, f.patientActor(), f.orgID, service.CreateBookingInput{
		TherapistID: f.therapistID,
		StartAt:     start,
		EndAt:       start.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, service.Actor{UserID: other.UserID, Role: model.OrgRolePatient}, f.orgID, service.CreateBookingInput{
		TherapistID: f.therapistID,
		StartAt:     start.Add(2 * time.Hour),
		EndAt:       start.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	t.Run("patient sees only their own bookings", func(t *testing.T) {
		bookings, err := f.svc.List(ctx, f.patientActor(), f.orgID, service.ListBookingsInput{})
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, f.patient.ID, bookings[0].PatientID)
	})

	t.Run("therapist sees all bookings on their profile", func(t *testing.T) {
		bookings, err := f.svc.List(ctx, f.therapistActor(), f.orgID, service.ListBookingsInput{})
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})

	t.Run("admin sees the whole organization", func(t *testing.T) {
		bookings, err := f.svc.List(ctx, adminActor(), f.orgID, service.ListBookingsInput{})
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})

	t.Run("another organization sees nothing", func(t *testing.T) {
		bookings, err := f.svc.List(ctx, adminActor(), f.otherOrgID, service.ListBookingsInput{})
		require.NoError(t, err)
		assert.Empty(t, bookings)
	})
}
