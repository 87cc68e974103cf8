package history

import (
	"fmt"
	"time"
)

// Point is the last position watched in one simulation.
type Point struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Frame     int       `json:"frame"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finished reports whether playback had reached the last frame.
func (p *Point) Finished() bool {
	return p.Total > 0 && p.Frame >= p.Total-1
}

func (p *Point) String() string {
	return fmt.Sprintf("%s : %d / %d", p.Name, p.Frame+1, p.Total)
}
