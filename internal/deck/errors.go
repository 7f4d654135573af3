package deck

import (
	"errors"
	"fmt"
)

// ErrSanitization is the root of all sanitize-time failures. Every error
// returned by Parse, the field validators, and SanitizeDeckForArena matches
// it via errors.Is, so callers can distinguish "the input was rejected" from
// infrastructure failures without inspecting the specific kind.
var ErrSanitization = errors.New("deck sanitization failed")

// Specific sanitize-time error kinds. Exactly one of these is wrapped into
// every sanitization failure; use errors.Is to classify.
var (
	ErrInvalidDeckStructure   = fmt.Errorf("%w: invalid deck structure", ErrSanitization)
	ErrInvalidQuantity        = fmt.Errorf("%w: invalid quantity", ErrSanitization)
	ErrInvalidCardName        = fmt.Errorf("%w: invalid card name", ErrSanitization)
	ErrInvalidSetCode         = fmt.Errorf("%w: invalid set code", ErrSanitization)
	ErrInvalidCollectorNumber = fmt.Errorf("%w: invalid collector number", ErrSanitization)
	ErrDuplicateCard          = fmt.Errorf("%w: duplicate card", ErrSanitization)
)

// ErrNotImportable is the export-time failure kind. It is deliberately NOT
// under ErrSanitization: export validation guards against stale oracle data,
// not malformed input, and the two must stay distinguishable.
var ErrNotImportable = errors.New("deck not importable into Arena")

func structureErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDeckStructure, fmt.Sprintf(format, args...))
}

func quantityErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuantity, fmt.Sprintf(format, args...))
}

func cardNameErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCardName, fmt.Sprintf(format, args...))
}

func setCodeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSetCode, fmt.Sprintf(format, args...))
}

func collectorNumberErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCollectorNumber, fmt.Sprintf(format, args...))
}

func duplicateCardErrorf(name, section string) error {
	return fmt.Errorf("%w: %q appears more than once in %s", ErrDuplicateCard, name, section)
}

func importabilityErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotImportable, fmt.Sprintf(format, args...))
}
