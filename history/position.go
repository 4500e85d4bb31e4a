package history

import (
	"fmt"
	"math"

	"github.com/vidstack/elements/util"
)

// SavedPosition is a single resumable playback record keyed by source URL.
type SavedPosition struct {
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	SavedAt  int64   `json:"saved_at"`
}

func (s *SavedPosition) String() string {
	return fmt.Sprintf("%s : %s / %s", s.Title, util.FormatTime(s.Position), util.FormatTime(s.Duration))
}

func (s *SavedPosition) finished() bool {
	if math.IsNaN(s.Duration) || s.Duration <= 0 {
		return false
	}
	return s.Position/s.Duration > finishedRatio
}
