package advertisement

import "errors"

var (
	// ErrAdvertisementNotFound indicates no advertisement with the given id.
	ErrAdvertisementNotFound = errors.New("advertisement not found")

	// ErrInvalidAdvertisement indicates the advertisement failed validation.
	ErrInvalidAdvertisement = errors.New("invalid advertisement")
)
