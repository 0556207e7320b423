package entities

import (
	"testing"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/ecs"
)

func TestSpawnPattern(t *testing.T) {
	em := ecs.NewEntityManager()
	pattern := &config.PatternConfig{
		Name: "test",
		Slides: []config.PatternSlide{
			{Time: 1000, Lane: 0, Bodies: []config.PatternBody{{Shape: "straight", EndLane: 4, Duration: 1100, ShootDelay: 100}}},
			{Time: 3000, Lane: 6, Break: true, Bodies: []config.PatternBody{
				{Shape: "circle", EndLane: 2, Duration: 800, ShootDelay: 100},
				{Shape: "v", EndLane: 3, Duration: 1000, ShootDelay: 100},
			}},
		},
	}

	slides, err := SpawnPattern(em, pattern, SlideOptions{Difficulty: 5})
	if err != nil {
		t.Fatalf("SpawnPattern failed: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(slides))
	}

	second, _ := ecs.GetComponent[*components.SlideComponent](em, slides[1])
	if len(second.Bodies) != 2 {
		t.Fatalf("second slide bodies = %d, want 2", len(second.Bodies))
	}
	for _, bodyID := range second.Bodies {
		lane, _ := ecs.GetComponent[*components.LaneComponent](em, bodyID)
		if !lane.Break {
			t.Errorf("body %d should inherit break flag", bodyID)
		}
	}
	// 路径起点在父滑条键位上
	body, _ := ecs.GetComponent[*components.SlideBodyComponent](em, second.Bodies[0])
	if d := body.Path.PositionAt(0).DistanceTo(LanePosition(6)); d > 1e-6 {
		t.Errorf("body path starts %v away from lane 6", d)
	}
	firstLane, _ := ecs.GetComponent[*components.LaneComponent](em, slides[0])
	if firstLane.Break {
		t.Error("first slide should not be break")
	}
}

func TestSpawnPattern_FailureCleansUp(t *testing.T) {
	em := ecs.NewEntityManager()
	pattern := &config.PatternConfig{
		Slides: []config.PatternSlide{
			{Time: 1000, Lane: 0, Bodies: []config.PatternBody{{Shape: "straight", EndLane: 4, Duration: 1100, ShootDelay: 100}}},
			{Time: 2000, Lane: 0, Bodies: []config.PatternBody{{Shape: "straight", EndLane: 0, Duration: 500}}},
		},
	}

	if _, err := SpawnPattern(em, pattern, SlideOptions{}); err == nil {
		t.Fatal("expected error for zero-length straight slide")
	}
	if n := len(ecs.GetEntitiesWith1[*components.SlideComponent](em)); n != 0 {
		t.Errorf("slides left after failure = %d, want 0", n)
	}

	if _, err := SpawnPattern(em, nil, SlideOptions{}); err == nil {
		t.Error("expected error for nil pattern")
	}
}
