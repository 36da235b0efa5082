package numerology

import "errors"

var (
	// ErrInvalidInput is returned when a name has no letter of the active
	// alphabet. The person's chart is not computed.
	ErrInvalidInput = errors.New("invalid names supplied")
	// ErrInvalidDate marks a missing or unparsable birthdate. It never
	// aborts a chart; birthdate figures are reported absent instead.
	ErrInvalidDate = errors.New("invalid birthdate")
	// ErrUnknownSystem is returned by SystemByName.
	ErrUnknownSystem = errors.New("unknown numerology system")
)
