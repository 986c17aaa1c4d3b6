package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/google/uuid"
)

// fakeStore is the shared in-memory state behind the fake repositories. The
// fakes mirror the real repositories' error mapping (duplicates, not-found,
// booking conflicts) so services exercise the same error paths they hit
// against postgres.
type fakeStore struct {
	users       map[uuid.UUID]*model.User
	credentials []*model.Credential
	orgs        map[uuid.UUID]*model.Organization
	members     []*model.Member
	therapists  map[uuid.UUID]*model.Therapist
	patients    map[uuid.UUID]*model.Patient
	slots       map[uuid.UUID]*model.AvailabilitySlot
	bookings    map[uuid.UUID]*model.Booking
	reviews     []*model.Review
	invitations map[uuid.UUID]*model.Invitation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uuid.UUID]*model.User),
		orgs:        make(map[uuid.UUID]*model.Organization),
		therapists:  make(map[uuid.UUID]*model.Therapist),
		patients:    make(map[uuid.UUID]*model.Patient),
		slots:       make(map[uuid.UUID]*model.AvailabilitySlot),
		bookings:    make(map[uuid.UUID]*model.Booking),
		invitations: make(map[uuid.UUID]*model.Invitation),
	}
}

// fakeTx buffers writes until Commit so rollback behavior is observable:
// nothing lands in the store unless the whole transaction commits.
type fakeTx struct {
	pending    []func()
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error {
	for _, apply := range t.pending {
		apply()
	}
	t.pending = nil
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.pending = nil
		t.rolledBack = true
	}
	return nil
}

func stage(tx *fakeTx, apply func()) {
	if tx != nil {
		tx.pending = append(tx.pending, apply)
		return
	}
	apply()
}

// --- users ---

type fakeUserRepo struct {
	store     *fakeStore
	tx        *fakeTx
	createErr error
	updateErr error
}

func (r *fakeUserRepo) Begin(ctx context.Context) (repository.Transaction, error) {
	return &fakeTx{}, nil
}

func (r *fakeUserRepo) WithTx(tx repository.Transaction) repository.UserRepositoryIface {
	return &fakeUserRepo{store: r.store, tx: tx.(*fakeTx), createErr: r.createErr, updateErr: r.updateErr}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.store.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = model.RolePatient
	}
	copied := *user
	stage(r.tx, func() { r.store.users[copied.ID] = &copied })
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.store.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	copied := *user
	stage(r.tx, func() { r.store.users[copied.ID] = &copied })
	return nil
}

// --- credentials ---

type fakeCredentialRepo struct {
	store *fakeStore
	tx    *fakeTx
}

func (r *fakeCredentialRepo) WithTx(tx repository.Transaction) repository.CredentialRepositoryIface {
	return &fakeCredentialRepo{store: r.store, tx: tx.(*fakeTx)}
}

func (r *fakeCredentialRepo) Create(ctx context.Context, credential *model.Credential) error {
	if credential.ID == uuid.Nil {
		credential.ID = uuid.New()
	}
	copied := *credential
	stage(r.tx, func() { r.store.credentials = append(r.store.credentials, &copied) })
	return nil
}

func (r *fakeCredentialRepo) FindByUserAndKind(ctx context.Context, userID uuid.UUID, kind model.CredentialKind) (*model.Credential, error) {
	for i := len(r.store.credentials) - 1; i >= 0; i-- {
		c := r.store.credentials[i]
		if c.UserID == userID && c.Kind == kind && c.IsActive {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeCredentialRepo) Update(ctx context.Context, credential *model.Credential) error {
	copied := *credential
	stage(r.tx, func() {
		for i, c := range r.store.credentials {
			if c.ID == copied.ID {
				r.store.credentials[i] = &copied
				return
			}
		}
	})
	return nil
}

// --- organizations ---

type fakeOrgRepo struct {
	store *fakeStore
	tx    *fakeTx
}

func (r *fakeOrgRepo) WithTx(tx repository.Transaction) repository.OrganizationRepositoryIface {
	return &fakeOrgRepo{store: r.store, tx: tx.(*fakeTx)}
}

func (r *fakeOrgRepo) Create(ctx context.Context, org *model.Organization) error {
	for _, existing := range r.store.orgs {
		if existing.Slug == org.Slug {
			return domain.ErrSlugAlreadyExists
		}
	}
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	copied := *org
	stage(r.tx, func() { r.store.orgs[copied.ID] = &copied })
	return nil
}

func (r *fakeOrgRepo) FindAll(ctx context.Context) ([]*model.Organization, error) {
	var orgs []*model.Organization
	for _, org := range r.store.orgs {
		copied := *org
		orgs = append(orgs, &copied)
	}
	return orgs, nil
}

func (r *fakeOrgRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	org, ok := r.store.orgs[id]
	if !ok {
		return nil, domain.ErrOrganizationNotFound
	}
	copied := *org
	return &copied, nil
}

func (r *fakeOrgRepo) Update(ctx context.Context, org *model.Organization) error {
	copied := *org
	stage(r.tx, func() { r.store.orgs[copied.ID] = &copied })
	return nil
}

// --- members ---

type fakeMemberRepo struct {
	store     *fakeStore
	tx        *fakeTx
	createErr error
}

func (r *fakeMemberRepo) WithTx(tx repository.Transaction) repository.MemberRepositoryIface {
	return &fakeMemberRepo{store: r.store, tx: tx.(*fakeTx), createErr: r.createErr}
}

func (r *fakeMemberRepo) Create(ctx context.Context, member *model.Member) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.store.members {
		if existing.OrganizationID == member.OrganizationID && existing.UserID == member.UserID {
			return domain.ErrDuplicateMember
		}
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	copied := *member
	stage(r.tx, func() { r.store.members = append(r.store.members, &copied) })
	return nil
}

func (r *fakeMemberRepo) Find(ctx context.Context, orgID, userID uuid.UUID) (*model.Member, error) {
	for _, member := range r.store.members {
		if member.OrganizationID == orgID && member.UserID == userID {
			copied := *member
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeMemberRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Member, error) {
	var members []*model.Member
	for _, member := range r.store.members {
		if member.OrganizationID == orgID {
			copied := *member
			if user, ok := r.store.users[member.UserID]; ok {
				copied.User = *user
			}
			members = append(members, &copied)
		}
	}
	return members, nil
}

func (r *fakeMemberRepo) UpdateRole(ctx context.Context, orgID, userID uuid.UUID, role model.OrgRole) error {
	for _, member := range r.store.members {
		if member.OrganizationID == orgID && member.UserID == userID {
			target := member
			stage(r.tx, func() { target.Role = role })
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeMemberRepo) Delete(ctx context.Context, orgID, userID uuid.UUID) error {
	for i, member := range r.store.members {
		if member.OrganizationID == orgID && member.UserID == userID {
			idx := i
			stage(r.tx, func() {
				r.store.members = append(r.store.members[:idx], r.store.members[idx+1:]...)
			})
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- therapists ---

type fakeTherapistRepo struct {
	store     *fakeStore
	tx        *fakeTx
	createErr error
}

func (r *fakeTherapistRepo) WithTx(tx repository.Transaction) repository.TherapistRepositoryIface {
	return &fakeTherapistRepo{store: r.store, tx: tx.(*fakeTx), createErr: r.createErr}
}

func (r *fakeTherapistRepo) Create(ctx context.Context, therapist *model.Therapist) error {
	if r.createErr != nil {
		return r.createErr
	}
	if therapist.ID == uuid.Nil {
		therapist.ID = uuid.New()
	}
	copied := *therapist
	stage(r.tx, func() { r.store.therapists[copied.ID] = &copied })
	return nil
}

func (r *fakeTherapistRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Therapist, error) {
	therapist, ok := r.store.therapists[id]
	if !ok || therapist.OrganizationID != orgID {
		return nil, domain.ErrTherapistNotFound
	}
	copied := *therapist
	return &copied, nil
}

func (r *fakeTherapistRepo) FindByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.Therapist, error) {
	for _, therapist := range r.store.therapists {
		if therapist.OrganizationID == orgID && therapist.UserID == userID {
			copied := *therapist
			return &copied, nil
		}
	}
	return nil, domain.ErrTherapistNotFound
}

func (r *fakeTherapistRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID, verification *model.VerificationStatus) ([]*model.Therapist, error) {
	var therapists []*model.Therapist
	for _, therapist := range r.store.therapists {
		if therapist.OrganizationID != orgID {
			continue
		}
		if verification != nil && therapist.Verification != *verification {
			continue
		}
		copied := *therapist
		therapists = append(therapists, &copied)
	}
	return therapists, nil
}

func (r *fakeTherapistRepo) Update(ctx context.Context, therapist *model.Therapist) error {
	copied := *therapist
	stage(r.tx, func() { r.store.therapists[copied.ID] = &copied })
	return nil
}

func (r *fakeTherapistRepo) SetVerification(ctx context.Context, orgID, id uuid.UUID, status model.VerificationStatus) (*model.Therapist, error) {
	therapist, ok := r.store.therapists[id]
	if !ok || therapist.OrganizationID != orgID {
		return nil, domain.ErrTherapistNotFound
	}
	therapist.Verification = status
	copied := *therapist
	return &copied, nil
}

// --- patients ---

type fakePatientRepo struct {
	store *fakeStore
	tx    *fakeTx
}

func (r *fakePatientRepo) WithTx(tx repository.Transaction) repository.PatientRepositoryIface {
	return &fakePatientRepo{store: r.store, tx: tx.(*fakeTx)}
}

func (r *fakePatientRepo) Create(ctx context.Context, patient *model.Patient) error {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	copied := *patient
	stage(r.tx, func() { r.store.patients[copied.ID] = &copied })
	return nil
}

func (r *fakePatientRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Patient, error) {
	patient, ok := r.store.patients[id]
	if !ok || patient.OrganizationID != orgID {
		return nil, domain.ErrPatientNotFound
	}
	copied := *patient
	return &copied, nil
}

func (r *fakePatientRepo) FindByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.Patient, error) {
	for _, patient := range r.store.patients {
		if patient.OrganizationID == orgID && patient.UserID == userID {
			copied := *patient
			return &copied, nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func (r *fakePatientRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Patient, error) {
	var patients []*model.Patient
	for _, patient := range r.store.patients {
		if patient.OrganizationID == orgID {
			copied := *patient
			patients = append(patients, &copied)
		}
	}
	return patients, nil
}

func (r *fakePatientRepo) Update(ctx context.Context, patient *model.Patient) error {
	copied := *patient
	stage(r.tx, func() { r.store.patients[copied.ID] = &copied })
	return nil
}

// --- availability ---

type fakeAvailabilityRepo struct {
	store *fakeStore
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	copied := *slot
	r.store.slots[copied.ID] = &copied
	return nil
}

func (r *fakeAvailabilityRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.AvailabilitySlot, error) {
	slot, ok := r.store.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	therapist, ok := r.store.therapists[slot.TherapistID]
	if !ok || therapist.OrganizationID != orgID {
		return nil, domain.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeAvailabilityRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID, filter repository.AvailabilityFilter) ([]*model.AvailabilitySlot, error) {
	var slots []*model.AvailabilitySlot
	for _, slot := range r.store.slots {
		therapist, ok := r.store.therapists[slot.TherapistID]
		if !ok || therapist.OrganizationID != orgID {
			continue
		}
		if filter.TherapistID != nil && slot.TherapistID != *filter.TherapistID {
			continue
		}
		if filter.TherapistUserID != nil && therapist.UserID != *filter.TherapistUserID {
			continue
		}
		if filter.Date != nil && (slot.DateOverride == nil || !slot.DateOverride.Equal(*filter.Date)) {
			continue
		}
		copied := *slot
		slots = append(slots, &copied)
	}
	return slots, nil
}

func (r *fakeAvailabilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.slots[id]; !ok {
		return domain.ErrSlotNotFound
	}
	delete(r.store.slots, id)
	return nil
}

// --- bookings ---

type fakeBookingRepo struct {
	store *fakeStore
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	for _, existing := range r.store.bookings {
		if existing.TherapistID != booking.TherapistID {
			continue
		}
		if existing.Status != model.BookingRequested && existing.Status != model.BookingConfirmed {
			continue
		}
		if existing.Overlaps(booking.StartAt, booking.EndAt) {
			return domain.ErrBookingConflict
		}
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = model.BookingRequested
	}
	copied := *booking
	r.store.bookings[copied.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Booking, error) {
	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	therapist, ok := r.store.therapists[booking.TherapistID]
	if !ok || therapist.OrganizationID != orgID {
		return nil, domain.ErrBookingNotFound
	}
	patient, ok := r.store.patients[booking.PatientID]
	if !ok || patient.OrganizationID != orgID {
		return nil, domain.ErrBookingNotFound
	}
	copied := *booking
	copied.Therapist = *therapist
	copied.Patient = *patient
	return &copied, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, orgID uuid.UUID, filter repository.BookingFilter) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for _, booking := range r.store.bookings {
		therapist, ok := r.store.therapists[booking.TherapistID]
		if !ok || therapist.OrganizationID != orgID {
			continue
		}
		patient, ok := r.store.patients[booking.PatientID]
		if !ok || patient.OrganizationID != orgID {
			continue
		}
		if filter.Status != nil && booking.Status != *filter.Status {
			continue
		}
		if filter.TherapistID != nil && booking.TherapistID != *filter.TherapistID {
			continue
		}
		if filter.PatientID != nil && booking.PatientID != *filter.PatientID {
			continue
		}
		if filter.TherapistUserID != nil && therapist.UserID != *filter.TherapistUserID {
			continue
		}
		if filter.PatientUserID != nil && patient.UserID != *filter.PatientUserID {
			continue
		}
		copied := *booking
		copied.Therapist = *therapist
		copied.Patient = *patient
		bookings = append(bookings, &copied)
	}
	return bookings, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	copied := *booking
	return &copied, nil
}

// --- reviews ---

type fakeReviewRepo struct {
	store *fakeStore
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *model.Review) error {
	for _, existing := range r.store.reviews {
		if existing.TherapistID == review.TherapistID && existing.PatientID == review.PatientID {
			return domain.ErrDuplicateReview
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	copied := *review
	r.store.reviews = append(r.store.reviews, &copied)
	return nil
}

func (r *fakeReviewRepo) List(ctx context.Context, orgID uuid.UUID, filter repository.ReviewFilter) ([]*model.Review, error) {
	var reviews []*model.Review
	for _, review := range r.store.reviews {
		therapist, ok := r.store.therapists[review.TherapistID]
		if !ok || therapist.OrganizationID != orgID {
			continue
		}
		patient, ok := r.store.patients[review.PatientID]
		if !ok || patient.OrganizationID != orgID {
			continue
		}
		if filter.TherapistID != nil && review.TherapistID != *filter.TherapistID {
			continue
		}
		if filter.PatientID != nil && review.PatientID != *filter.PatientID {
			continue
		}
		if filter.TherapistUserID != nil && therapist.UserID != *filter.TherapistUserID {
			continue
		}
		if filter.PatientUserID != nil && patient.UserID != *filter.PatientUserID {
			continue
		}
		copied := *review
		reviews = append(reviews, &copied)
	}
	return reviews, nil
}

// --- invitations ---

type fakeInvitationRepo struct {
	store *fakeStore
	tx    *fakeTx
}

func (r *fakeInvitationRepo) WithTx(tx repository.Transaction) repository.InvitationRepositoryIface {
	return &fakeInvitationRepo{store: r.store, tx: tx.(*fakeTx)}
}

func (r *fakeInvitationRepo) Create(ctx context.Context, invitation *model.Invitation) error {
	if invitation.ID == uuid.Nil {
		invitation.ID = uuid.New()
	}
	copied := *invitation
	stage(r.tx, func() { r.store.invitations[copied.ID] = &copied })
	return nil
}

func (r *fakeInvitationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	invitation, ok := r.store.invitations[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	copied := *invitation
	if org, ok := r.store.orgs[invitation.OrganizationID]; ok {
		copied.Organization = *org
	}
	return &copied, nil
}

func (r *fakeInvitationRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Invitation, error) {
	var invitations []*model.Invitation
	for _, invitation := range r.store.invitations {
		if invitation.OrganizationID == orgID {
			copied := *invitation
			invitations = append(invitations, &copied)
		}
	}
	return invitations, nil
}

func (r *fakeInvitationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InvitationStatus) error {
	invitation, ok := r.store.invitations[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	stage(r.tx, func() { invitation.Status = status })
	return nil
}
