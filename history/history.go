// Package history persists where each simulation was last watched, so that
// playback can resume at the same frame.
package history

import (
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/simplay-cli/simplay/filesystem"
	"github.com/simplay-cli/simplay/where"
	"golang.org/x/exp/slices"
)

var cacher = gache.New[map[string]*Point](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved resume point keyed by simulation id.
func Get() (map[string]*Point, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Point), nil
	}
	return cached, nil
}

// Find returns the resume point of a simulation, if any.
func Find(simulationID string) mo.Option[*Point] {
	saved, err := Get()
	if err != nil {
		return mo.None[*Point]()
	}
	point, ok := saved[simulationID]
	if !ok {
		return mo.None[*Point]()
	}
	return mo.Some(point)
}

// Save stores the point, replacing any earlier one for the same simulation.
func Save(point Point) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	point.Frame = lo.Clamp(point.Frame, 0, lo.Max([]int{point.Total - 1, 0}))
	if point.UpdatedAt.IsZero() {
		point.UpdatedAt = time.Now()
	}
	saved[point.ID] = &point

	return cacher.Set(saved)
}

// Remove deletes the resume point of a simulation.
func Remove(simulationID string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, simulationID)
	return cacher.Set(saved)
}

// Search returns the points whose name or id fuzzily matches query, most
// recent first. An empty query matches everything.
func Search(query string) ([]*Point, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	points := lo.Filter(lo.Values(saved), func(p *Point, _ int) bool {
		return query == "" ||
			fuzzy.MatchFold(query, p.Name) ||
			fuzzy.MatchFold(query, p.ID)
	})

	slices.SortFunc(points, func(a, b *Point) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return points, nil
}
