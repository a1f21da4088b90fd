package services

import "errors"

// Errors returned by the service layer. Handlers map them to HTTP statuses.

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrNotEventOwner      = errors.New("only the event creator can do this")
	ErrSelfSubscription   = errors.New("event creator cannot subscribe to their own event")
	ErrAlreadySubscribed  = errors.New("user is already subscribed to this event")
	ErrNotSubscribed      = errors.New("user is not subscribed to this event")
	ErrForeignParticipant = errors.New("cannot manage another user's subscription")
)

var (
	ErrStorageDisabled   = errors.New("poster storage is not configured")
	ErrPosterNotUploaded = errors.New("poster object was not uploaded")
	ErrPosterNotFound    = errors.New("event has no poster")
)

var ErrOAuthDisabled = errors.New("google sign-in is not configured")
