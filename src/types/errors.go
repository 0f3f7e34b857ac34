package types

import "errors"

var (
	// ErrPriceUnavailable means no positive booking price could be resolved
	// from the artist profile, the account fallback, or the client payload.
	ErrPriceUnavailable = errors.New("no booking price available for artist")

	// ErrSelfBooking means the requesting organizer is the artist being booked,
	// matched through either id aliasing scheme.
	ErrSelfBooking = errors.New("artists cannot book themselves")

	ErrGuestContactRequired = errors.New("guest bookings require a contact phone or email")

	ErrArtistNotFound = errors.New("artist not found")
)
