package story

import "errors"

// Build errors. Every failure aborts the whole build; callers match with
// errors.Is after the constructors wrap these with record context.
var (
	// ErrDuplicateName reports a name or short-name collision within a
	// namespace (line, event, character, combiner member set).
	ErrDuplicateName = errors.New("duplicate name")

	// ErrTimestampCollision reports two events sharing an absolute time
	// within the same place.
	ErrTimestampCollision = errors.New("timestamp collision")

	// ErrUnknownReference reports a reference to an unregistered line,
	// event, or character, including input-ordering violations.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrInvalidCombiner reports a combiner with fewer than two members or
	// a member set that already exists.
	ErrInvalidCombiner = errors.New("invalid combiner")

	// ErrSyncMarkerMisuse reports a character itinerary that names a
	// synchronization anchor instead of an attendable event.
	ErrSyncMarkerMisuse = errors.New("cannot attend a synchronization marker")

	// ErrInvalidOffset reports a malformed time-offset suffix.
	ErrInvalidOffset = errors.New("invalid time offset")
)
