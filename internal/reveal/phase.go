package reveal

// Phase is the top-level stage of a reveal session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhasePackReady
	PhaseStacked
	PhaseTransitioning
	PhaseRevealed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhasePackReady:
		return "pack"
	case PhaseStacked:
		return "stacked"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}
