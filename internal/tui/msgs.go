package tui

import (
	"time"

	"github.com/jask/packreveal/internal/assets"
	"github.com/jask/packreveal/internal/catalog"
)

// messages
type frameMsg time.Time

type catalogLoadedMsg struct {
	Cards  []catalog.Card
	Cached bool
}

type catalogFailedMsg struct{ error }

type assetSettledMsg struct {
	Generation uint64
	Outcome    assets.Outcome
	next       <-chan assets.Outcome
}

type handPreloadedMsg struct {
	Generation uint64
	Report     assets.Report
}
