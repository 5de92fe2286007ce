// Package tracker resolves per-frame hero level observations into persistent identities.
package tracker

import (
	"math"

	"github.com/rs/zerolog/log"
)

var trackerLog = log.With().Str("module", "tracker").Logger()

// Params are the matching limits of a Tracker.
type Params struct {
	// MatchDistance is the exclusive pixel radius within which an observation may join an entity.
	MatchDistance float64 `mapstructure:"match_distance"`
	// MatchTimeout is how long, in ms, an entity stays eligible for matching after its last update.
	MatchTimeout int64 `mapstructure:"match_timeout_ms"`
}

// DefaultParams returns 20 px and 3000 ms.
func DefaultParams() Params {
	return Params{MatchDistance: 20, MatchTimeout: 3000}
}

// Tracker owns the live hero entities. It is not safe for concurrent use.
type Tracker struct {
	params      Params
	entities    []HeroEntity
	nextID      int
	initialized bool
}

// New creates an empty tracker in bootstrap mode.
func New(params Params) *Tracker {
	return &Tracker{params: params}
}

// Assign resolves a single observation and leaves bootstrap mode.
func (t *Tracker) Assign(obs Observation) HeroStatus {
	s := t.assign(obs)
	t.initialized = true
	return s
}

// Update resolves the observations of one frame taken at ts and returns their statuses in order.
// Every observation of the first frame creates an entity.
func (t *Tracker) Update(ts int64, observations []Observation) []HeroStatus {
	result := make([]HeroStatus, 0, len(observations))
	for _, obs := range observations {
		obs.Timestamp = ts
		result = append(result, t.assign(obs))
	}
	t.initialized = true
	return result
}

func (t *Tracker) assign(obs Observation) HeroStatus {
	if !t.initialized {
		return t.create(obs, "bootstrap")
	}

	idx, dist := t.nearest(obs)
	if idx < 0 || dist >= t.params.MatchDistance {
		return t.create(obs, "no entity nearby")
	}
	cand := &t.entities[idx]
	switch {
	case obs.Timestamp-cand.LastUpdated > t.params.MatchTimeout:
		return t.create(obs, "nearest entity stale")
	case obs.Level < cand.Level:
		return t.create(obs, "level decreased")
	case obs.Level == cand.Level, obs.Level == cand.Level+1:
		cand.Position = obs.Position
		cand.Level = obs.Level
		cand.LastUpdated = max(cand.LastUpdated, obs.Timestamp)
		cand.Appearances++
		trackerLog.Debug().Object("hero", *cand).Float64("distance", dist).Msg("observation merged")
		return cand.Status()
	default:
		return t.create(obs, "level jump")
	}
}

// nearest returns the index of the closest entity, the first one on ties, or -1 when empty.
func (t *Tracker) nearest(obs Observation) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, e := range t.entities {
		dx := float64(e.Position.X - obs.Position.X)
		dy := float64(e.Position.Y - obs.Position.Y)
		if d := math.Hypot(dx, dy); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func (t *Tracker) create(obs Observation, reason string) HeroStatus {
	e := HeroEntity{
		ID:          t.nextID,
		Position:    obs.Position,
		Level:       obs.Level,
		LastUpdated: obs.Timestamp,
		Appearances: 1,
	}
	t.nextID++
	t.entities = append(t.entities, e)
	trackerLog.Debug().Object("hero", e).Str("reason", reason).Msg("hero created")
	return e.Status()
}

// Prune removes every entity idle for more than inactiveTimeout ms at now that was seen fewer
// than minAppearances times, and returns the removed entities.
func (t *Tracker) Prune(now, inactiveTimeout int64, minAppearances int) []HeroEntity {
	var removed []HeroEntity
	survivors := make([]HeroEntity, 0, len(t.entities))
	for _, e := range t.entities {
		if now-e.LastUpdated > inactiveTimeout && e.Appearances < minAppearances {
			removed = append(removed, e)
			continue
		}
		survivors = append(survivors, e)
	}
	t.entities = survivors
	for _, e := range removed {
		trackerLog.Debug().Object("hero", e).Int64("now", now).Msg("hero pruned")
	}
	return removed
}

// Entities returns a copy of the live entities in creation order.
func (t *Tracker) Entities() []HeroEntity {
	out := make([]HeroEntity, len(t.entities))
	copy(out, t.entities)
	return out
}

// Len returns the number of live entities.
func (t *Tracker) Len() int { return len(t.entities) }

// Reset drops every entity and returns to bootstrap mode. Ids keep increasing.
func (t *Tracker) Reset() {
	t.entities = nil
	t.initialized = false
	trackerLog.Info().Int("next_id", t.nextID).Msg("tracker reset")
}
