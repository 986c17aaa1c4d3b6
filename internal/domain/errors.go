package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// Auth-related errors
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccessDenied        = errors.New("access denied")
	ErrNotAMember          = errors.New("not a member of this organization")
	ErrSelfTarget          = errors.New("cannot target your own account")
	ErrPasswordsDoNotMatch = errors.New("passwords do not match")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Verification-related errors
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrVerificationExpired     = errors.New("verification code expired")
	ErrAlreadyVerified         = errors.New("already verified")

	// Organization-related errors
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrSlugAlreadyExists    = errors.New("organization slug already exists")
	ErrDuplicateMember      = errors.New("user is already a member of this organization")

	// Profile-related errors
	ErrTherapistNotFound = errors.New("therapist not found")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrSlotNotFound      = errors.New("availability slot not found")

	// Booking-related errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingConflict   = errors.New("booking overlaps an existing booking")
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// Review-related errors
	ErrDuplicateReview = errors.New("review already exists for this therapist and patient")

	// Invitation-related errors
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationClosed   = errors.New("invitation is no longer pending")
)
