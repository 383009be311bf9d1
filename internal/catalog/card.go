package catalog

// Face identifies one side of a card.
type Face string

const (
	FaceFront Face = "front"
	FaceBack  Face = "back"
)

// Card is a validated catalog entry. Ingestion only ever emits cards for
// which Valid reports true.
type Card struct {
	ID       string
	FrontRef string
	BackRef  string

	// Original references as they appeared in the catalog, before rewriting.
	FrontOriginal string
	BackOriginal  string
}

// Valid reports whether the card has an id and both asset references.
func (c Card) Valid() bool {
	return c.ID != "" && c.FrontRef != "" && c.BackRef != ""
}

// Ref returns the asset reference for the given face.
func (c Card) Ref(f Face) string {
	if f == FaceBack {
		return c.BackRef
	}
	return c.FrontRef
}

// FilterValid returns the valid cards in their original order.
func FilterValid(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}
