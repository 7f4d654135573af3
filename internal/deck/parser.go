package deck

import (
	"regexp"
	"strings"
)

// Section header literals of the Arena import format.
const (
	headerDeck      = "Deck"
	headerSideboard = "Sideboard"
)

// ParsedEntry is a card line split into raw tokens. Nothing about it has
// been validated; it exists only between Parse and SanitizeDeckForArena.
type ParsedEntry struct {
	RawQuantity        string
	RawName            string
	RawSetCode         string // empty for bare-name lines
	RawCollectorNumber string // empty for bare-name lines
	Line               int    // 1-based source line, for error reporting
}

// ParsedDeck is the unvalidated intermediate structure produced by Parse.
// It must never escape the sanitization pipeline.
type ParsedDeck struct {
	Mainboard []ParsedEntry
	Sideboard []ParsedEntry
}

var (
	// "4 Lightning Bolt (M10) 146" — quantity, name, parenthesized set,
	// collector number. Token shape only; field content is checked later.
	fullLinePattern = regexp.MustCompile(`^([0-9]+)\s+(.+?)\s+\(([^()\s]+)\)\s+(\S+)$`)

	// "4 Lightning Bolt" — bare-name form; the oracle supplies the
	// canonical printing during sanitization.
	bareLinePattern = regexp.MustCompile(`^([0-9]+)\s+(.+)$`)
)

// Parse converts raw deck-list text into a ParsedDeck. It checks shape only:
// a quantity of "99999999" or a name full of control characters parses fine.
// Lines must be blank, one of the two section headers, or a card line;
// anything else fails with ErrInvalidDeckStructure.
func Parse(raw string) (*ParsedDeck, error) {
	parsed := &ParsedDeck{}

	inSideboard := false
	seenDeckHeader := false
	seenSideboardHeader := false
	entries := 0

	for i, line := range strings.Split(raw, "\n") {
		lineNum := i + 1
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		switch line {
		case headerDeck:
			if seenDeckHeader {
				return nil, structureErrorf("duplicate section header %q at line %d", headerDeck, lineNum)
			}
			if entries > 0 || inSideboard {
				return nil, structureErrorf("%q header at line %d must precede all card lines", headerDeck, lineNum)
			}
			seenDeckHeader = true
			continue
		case headerSideboard:
			if seenSideboardHeader {
				return nil, structureErrorf("duplicate section header %q at line %d", headerSideboard, lineNum)
			}
			seenSideboardHeader = true
			inSideboard = true
			continue
		}

		entry, ok := parseCardLine(line, lineNum)
		if !ok {
			return nil, structureErrorf("malformed line %d: %q", lineNum, line)
		}

		entries++
		if entries > MaxDeckEntries {
			return nil, structureErrorf("deck exceeds maximum of %d entries", MaxDeckEntries)
		}

		if inSideboard {
			parsed.Sideboard = append(parsed.Sideboard, entry)
		} else {
			parsed.Mainboard = append(parsed.Mainboard, entry)
		}
	}

	if len(parsed.Mainboard) == 0 {
		return nil, structureErrorf("mainboard must contain at least one card")
	}

	return parsed, nil
}

func parseCardLine(line string, lineNum int) (ParsedEntry, bool) {
	if m := fullLinePattern.FindStringSubmatch(line); m != nil {
		return ParsedEntry{
			RawQuantity:        m[1],
			RawName:            strings.TrimSpace(m[2]),
			RawSetCode:         m[3],
			RawCollectorNumber: m[4],
			Line:               lineNum,
		}, true
	}
	if m := bareLinePattern.FindStringSubmatch(line); m != nil {
		return ParsedEntry{
			RawQuantity: m[1],
			RawName:     strings.TrimSpace(m[2]),
			Line:        lineNum,
		}, true
	}
	return ParsedEntry{}, false
}
