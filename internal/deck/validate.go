package deck

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field limits enforced before a SanitizedCard may be constructed.
const (
	MinCardQuantity          = 1
	MaxCardQuantity          = 250 // Arena caps basic lands at 250 copies
	MaxCardNameLength        = 120
	MaxSetCodeLength         = 6
	MaxCollectorNumberLength = 10

	// MaxInputBytes bounds raw input before parsing is even attempted.
	MaxInputBytes = 64 * 1024

	// MaxDeckEntries bounds the total number of card lines across both sections.
	MaxDeckEntries = 500
)

// arenaInvalidSets lists set codes Arena refuses to import: paper-only
// reprint sets, promo distributions, judge foils, gold-bordered World
// Championship decks, and foreign-only printings.
var arenaInvalidSets = map[string]struct{}{
	"PLST": {}, "PLIST": {},
	"MUL": {},
	"MB1": {}, "MB2": {}, "FMB1": {},
	"SLD": {},
	"PRM": {}, "PHED": {},
	"PLG20": {}, "PLG21": {}, "PLG22": {}, "PLG23": {},
	"PMEI": {}, "PNAT": {},
	"J14": {}, "J15": {}, "J16": {}, "J17": {}, "J18": {},
	"J19": {}, "J20": {}, "J21": {}, "J22": {},
	"WC97": {}, "WC98": {}, "WC99": {}, "WC00": {}, "WC01": {},
	"WC02": {}, "WC03": {}, "WC04": {},
	"CEI": {}, "CED": {},
	"CMB1": {}, "CMB2": {},
	"30A": {},
	"RIN": {}, "REN": {},
}

// IsArenaInvalidSet reports whether a set code is known to be rejected by
// the Arena importer. Comparison is case-insensitive.
func IsArenaInvalidSet(setCode string) bool {
	_, invalid := arenaInvalidSets[strings.ToUpper(setCode)]
	return invalid
}

var (
	quantityPattern        = regexp.MustCompile(`^[0-9]+$`)
	setCodePattern         = regexp.MustCompile(`^[A-Z0-9]+$`)
	collectorNumberPattern = regexp.MustCompile(`^[0-9A-Za-z★/-]+$`)
)

// ValidateQuantity converts a raw quantity token into an integer within
// [MinCardQuantity, MaxCardQuantity].
func ValidateQuantity(raw string) (int, error) {
	if !quantityPattern.MatchString(raw) {
		return 0, quantityErrorf("%q is not a base-10 integer", raw)
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		// Only overflow can get past the digits check.
		return 0, quantityErrorf("%q is out of range", raw)
	}
	if quantity < MinCardQuantity {
		return 0, quantityErrorf("quantity %d is below minimum %d", quantity, MinCardQuantity)
	}
	if quantity > MaxCardQuantity {
		return 0, quantityErrorf("quantity %d exceeds maximum %d", quantity, MaxCardQuantity)
	}
	return quantity, nil
}

// ValidateCardName checks a raw card name against length and charset rules.
// Names must be printable text without control characters or parentheses;
// parentheses are structural delimiters in the Arena format and can never
// appear inside a real card name.
func ValidateCardName(raw string) (string, error) {
	if raw == "" || strings.TrimSpace(raw) == "" {
		return "", cardNameErrorf("name is empty")
	}
	if utf8.RuneCountInString(raw) > MaxCardNameLength {
		return "", cardNameErrorf("name exceeds maximum length %d", MaxCardNameLength)
	}
	for _, r := range raw {
		if unicode.IsControl(r) {
			return "", cardNameErrorf("name %q contains a control character", raw)
		}
		if r == '(' || r == ')' {
			return "", cardNameErrorf("name %q contains a structural delimiter", raw)
		}
	}
	return raw, nil
}

// ValidateSetCode checks a raw set code token: non-empty, bounded,
// uppercase alphanumeric, and not a set Arena refuses to import.
func ValidateSetCode(raw string) (string, error) {
	if raw == "" {
		return "", setCodeErrorf("set code is empty")
	}
	if len(raw) > MaxSetCodeLength {
		return "", setCodeErrorf("set code %q exceeds maximum length %d", raw, MaxSetCodeLength)
	}
	if !setCodePattern.MatchString(raw) {
		return "", setCodeErrorf("set code %q must be uppercase alphanumeric", raw)
	}
	if IsArenaInvalidSet(raw) {
		return "", setCodeErrorf("set %q cannot be imported into Arena", raw)
	}
	return raw, nil
}

// ValidateCollectorNumber checks a raw collector number token. Collector
// numbers are alphanumeric with a small set of suffix separators (letter
// variants, ★ promos, split numbers).
func ValidateCollectorNumber(raw string) (string, error) {
	if raw == "" {
		return "", collectorNumberErrorf("collector number is empty")
	}
	if utf8.RuneCountInString(raw) > MaxCollectorNumberLength {
		return "", collectorNumberErrorf("collector number %q exceeds maximum length %d", raw, MaxCollectorNumberLength)
	}
	if !collectorNumberPattern.MatchString(raw) {
		return "", collectorNumberErrorf("collector number %q contains disallowed characters", raw)
	}
	return raw, nil
}
