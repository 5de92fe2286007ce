package tracker

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func obs(level, x, y int, ts int64) Observation {
	return Observation{Level: level, Position: image.Pt(x, y), Timestamp: ts}
}

func TestBootstrapThenSteadyState(t *testing.T) {
	tr := New(DefaultParams())

	s := tr.Assign(obs(5, 100, 100, 0))
	if s.ID != 0 || s.Level != 5 {
		t.Fatalf("step 1: expected id 0 level 5, got %+v", s)
	}

	s = tr.Assign(obs(5, 101, 101, 100))
	e := tr.Entities()[0]
	if s.ID != 0 || e.Appearances != 2 || e.Position != image.Pt(101, 101) {
		t.Fatalf("step 2: expected merge into id 0, got %+v / %+v", s, e)
	}

	s = tr.Assign(obs(6, 102, 100, 200))
	e = tr.Entities()[0]
	if s.ID != 0 || e.Level != 6 || e.Appearances != 3 {
		t.Fatalf("step 3: expected level-up merge, got %+v / %+v", s, e)
	}

	s = tr.Assign(obs(6, 500, 500, 300))
	if s.ID != 1 || tr.Entities()[1].Appearances != 1 {
		t.Fatalf("step 4: expected new id 1, got %+v", s)
	}

	removed := tr.Prune(4000, 3000, 5)
	if len(removed) != 2 || tr.Len() != 0 {
		t.Fatalf("step 5: expected both removed, got removed=%v live=%d", removed, tr.Len())
	}
}

func TestUpdateFirstFrameCreatesAll(t *testing.T) {
	tr := New(DefaultParams())
	got := tr.Update(0, []Observation{obs(3, 10, 10, 0), obs(3, 12, 10, 0)})
	if len(got) != 2 || got[0].ID != 0 || got[1].ID != 1 {
		t.Fatalf("expected two new entities in bootstrap, got %+v", got)
	}

	got = tr.Update(500, []Observation{obs(3, 11, 10, 0)})
	if got[0].ID != 0 {
		t.Errorf("expected nearest-first merge into id 0, got %+v", got[0])
	}
	if e := tr.Entities()[0]; e.LastUpdated != 500 {
		t.Errorf("expected frame timestamp to be applied, got %d", e.LastUpdated)
	}
}

func TestMergeStability(t *testing.T) {
	tr := New(DefaultParams())
	first := tr.Assign(obs(4, 300, 200, 0))
	for i := 1; i <= 50; i++ {
		s := tr.Assign(obs(4, 300+i%3, 200-i%2, int64(i)*2900))
		if s.ID != first.ID {
			t.Fatalf("observation %d: expected id %d, got %d", i, first.ID, s.ID)
		}
	}
	if tr.Len() != 1 || tr.Entities()[0].Appearances != 51 {
		t.Errorf("expected one entity with 51 appearances, got %+v", tr.Entities())
	}
}

func TestMergeNeverRewindsLastUpdated(t *testing.T) {
	tr := New(DefaultParams())
	tr.Assign(obs(3, 0, 0, 1000))
	s := tr.Assign(obs(3, 1, 0, 500))

	e := tr.Entities()[0]
	if s.ID != 0 || e.Appearances != 2 {
		t.Fatalf("expected late observation to merge into id 0, got %+v / %+v", s, e)
	}
	if e.LastUpdated != 1000 {
		t.Errorf("expected last update to stay at 1000, got %d", e.LastUpdated)
	}
	if e.Position != image.Pt(1, 0) {
		t.Errorf("expected position to follow the observation, got %v", e.Position)
	}
}

func TestCreationThreshold(t *testing.T) {
	tr := New(DefaultParams())
	tr.Assign(obs(7, 0, 0, 0))
	for i, o := range []Observation{
		obs(7, 20, 0, 10),
		obs(8, 0, -25, 10),
		obs(1, 100, 100, 10),
	} {
		if s := tr.Assign(o); s.ID != i+1 {
			t.Errorf("observation %v: expected new id %d, got %d", o, i+1, s.ID)
		}
	}
}

func TestDecisionPolicy(t *testing.T) {
	cases := []struct {
		name   string
		next   Observation
		merged bool
	}{
		{"same level", obs(5, 5, 0, 1000), true},
		{"level up", obs(6, 5, 0, 1000), true},
		{"stale", obs(5, 5, 0, 3001), false},
		{"edge of window", obs(5, 5, 0, 3000), true},
		{"level down", obs(4, 5, 0, 1000), false},
		{"level jump", obs(7, 5, 0, 1000), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := New(DefaultParams())
			tr.Assign(obs(5, 0, 0, 0))
			s := tr.Assign(c.next)
			if merged := s.ID == 0; merged != c.merged {
				t.Errorf("expected merged=%v, got status %+v", c.merged, s)
			}
			if !c.merged && tr.Entities()[0].Appearances != 1 {
				t.Errorf("expected candidate untouched, got %+v", tr.Entities()[0])
			}
		})
	}
}

func TestNearestTieKeepsFirst(t *testing.T) {
	tr := New(DefaultParams())
	tr.Update(0, []Observation{obs(2, 0, 0, 0), obs(2, 10, 0, 0)})
	if s := tr.Assign(obs(2, 5, 0, 100)); s.ID != 0 {
		t.Errorf("expected tie to resolve to id 0, got %d", s.ID)
	}
}

func TestPruneKeepsConfidentEntities(t *testing.T) {
	tr := New(DefaultParams())
	tr.Assign(obs(1, 0, 0, 0))
	for i := 1; i < 5; i++ {
		tr.Assign(obs(1, 0, 0, int64(i)))
	}
	tr.Assign(obs(1, 200, 200, 10))
	tr.Assign(obs(1, 400, 400, 9000))

	removed := tr.Prune(1_000_000, 1000, 5)
	if len(removed) != 2 || removed[0].ID != 1 || removed[1].ID != 2 {
		t.Fatalf("expected ids 1 and 2 removed, got %+v", removed)
	}
	if live := tr.Entities(); len(live) != 1 || live[0].ID != 0 {
		t.Errorf("expected id 0 to survive, got %+v", live)
	}

	// consecutive removals must not skip entities
	tr2 := New(DefaultParams())
	tr2.Update(0, []Observation{obs(1, 0, 0, 0), obs(1, 100, 0, 0), obs(1, 200, 0, 0)})
	if removed := tr2.Prune(5000, 1000, 5); len(removed) != 3 || tr2.Len() != 0 {
		t.Errorf("expected all three removed, got %d live", tr2.Len())
	}
}

func TestIDsNeverReused(t *testing.T) {
	tr := New(DefaultParams())
	tr.Update(0, []Observation{obs(1, 0, 0, 0), obs(1, 100, 0, 0)})
	tr.Prune(10000, 1000, 5)
	tr.Reset()
	got := tr.Update(10000, []Observation{obs(1, 0, 0, 0)})
	if got[0].ID != 2 {
		t.Errorf("expected id 2 after prune and reset, got %d", got[0].ID)
	}
}

func TestEntitiesReturnsCopy(t *testing.T) {
	tr := New(DefaultParams())
	tr.Assign(obs(3, 1, 1, 0))
	tr.Entities()[0].Level = 99
	if tr.Entities()[0].Level != 3 {
		t.Error("expected Entities to return a copy")
	}
}

func TestHeroEntityLogObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("hero", HeroEntity{ID: 4, Level: 9, Position: image.Pt(3, 7), Appearances: 2}).Msg("")
	out := buf.String()
	for _, want := range []string{`"id":4`, `"level":9`, `"x":3`, `"y":7`, `"appearances":2`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}
