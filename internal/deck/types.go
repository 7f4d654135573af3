// Package deck implements the trust boundary for Arena deck-list text.
//
// Raw, untrusted text flows one direction through the pipeline:
//
//	raw text -> Parse -> field validation -> oracle confirmation -> SanitizedDeck
//
// A SanitizedDeck can only be obtained from SanitizeDeckForArena, so holding
// one is proof that every entry passed validation. Any rule violation aborts
// the whole call; the pipeline never repairs, substitutes, or returns a
// partial deck.
package deck

// Printing identifies a specific issue of a card: its set code and
// collector number. Set codes are uppercase.
type Printing struct {
	SetCode         string
	CollectorNumber string
}

// PrintingOracle answers whether a printing exists and can be imported into
// Arena, and supplies the canonical printing for a bare card name. It is an
// injected capability so tests can use a deterministic fixture.
//
// An oracle backed by external I/O must map its own failures to a negative
// answer; an unconfirmed printing fails sanitization either way.
type PrintingOracle interface {
	// IsArenaValidPrinting reports whether (name, setCode, collectorNumber)
	// names a real printing that Arena will import.
	IsArenaValidPrinting(name, setCode, collectorNumber string) bool

	// CanonicalArenaPrinting returns the preferred Arena-importable
	// printing for a card name, or false if none is known.
	CanonicalArenaPrinting(name string) (Printing, bool)
}

// SanitizedCard is a single validated deck entry. Every field satisfied its
// validator before construction and is never re-checked.
type SanitizedCard struct {
	Quantity        int
	Name            string
	SetCode         string
	CollectorNumber string
}

// SanitizedDeck is the immutable result of a successful sanitize call.
// Fields are unexported so a value cannot be forged or mutated outside this
// package; card order is the insertion order of the source text.
type SanitizedDeck struct {
	cards     []SanitizedCard
	sideboard []SanitizedCard
}

// Cards returns a copy of the mainboard in source order.
func (d *SanitizedDeck) Cards() []SanitizedCard {
	return append([]SanitizedCard(nil), d.cards...)
}

// Sideboard returns a copy of the sideboard in source order.
func (d *SanitizedDeck) Sideboard() []SanitizedCard {
	return append([]SanitizedCard(nil), d.sideboard...)
}
