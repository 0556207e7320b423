package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestLinePath_DistanceAndPosition(t *testing.T) {
	p := NewLinePath(Vector2{X: 0, Y: 0}, Vector2{X: 300, Y: 0})

	if !approxEqual(p.Distance(), 300) {
		t.Fatalf("Distance() = %v, want 300", p.Distance())
	}

	tests := []struct {
		name     string
		t        float64
		expected Vector2
	}{
		{"起点", 0, Vector2{X: 0}},
		{"中点", 0.5, Vector2{X: 150}},
		{"终点", 1, Vector2{X: 300}},
		{"小于0被限制", -0.2, Vector2{X: 0}},
		{"大于1被限制", 1.7, Vector2{X: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.PositionAt(tt.t)
			if !approxEqual(got.X, tt.expected.X) || !approxEqual(got.Y, tt.expected.Y) {
				t.Errorf("PositionAt(%v) = %+v, want %+v", tt.t, got, tt.expected)
			}
		})
	}
}

func TestSlidePath_ArcLengthParameterisation(t *testing.T) {
	// 两段长度不同的折线：0→100 与 100→400
	p, err := NewSlidePath(PathSegment{
		Type:   PathLinear,
		Points: []Vector2{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 300}},
	})
	if err != nil {
		t.Fatalf("NewSlidePath error: %v", err)
	}

	if !approxEqual(p.Distance(), 400) {
		t.Fatalf("Distance() = %v, want 400", p.Distance())
	}

	// t=0.5 对应弧长 200，位于第二段内 (100, 100)
	got := p.PositionAt(0.5)
	if !approxEqual(got.X, 100) || !approxEqual(got.Y, 100) {
		t.Errorf("PositionAt(0.5) = %+v, want (100, 100)", got)
	}
}

func TestArcPath_Distance(t *testing.T) {
	p := NewArcPath(Vector2{}, 100, 0, 180)

	// 三次贝塞尔近似的半圆长度与 π·r 相差不超过 0.1%
	want := math.Pi * 100
	if math.Abs(p.Distance()-want) > want*0.001 {
		t.Errorf("Distance() = %v, want ≈ %v", p.Distance(), want)
	}

	start := p.PositionAt(0)
	if !approxEqual(start.X, 0) || !approxEqual(start.Y, -100) {
		t.Errorf("arc start = %+v, want (0, -100)", start)
	}
	end := p.PositionAt(1)
	if !approxEqual(end.X, 0) || !approxEqual(end.Y, 100) {
		t.Errorf("arc end = %+v, want (0, 100)", end)
	}

	// 弧长参数化：四分之一处落在 90° 方向，且仍在圆上
	quarter := p.PositionAt(0.5)
	if math.Abs(quarter.X-100) > 0.1 || math.Abs(quarter.Y) > 0.1 {
		t.Errorf("arc midpoint = %+v, want ≈ (100, 0)", quarter)
	}
	for _, tt := range []float64{0.1, 0.3, 0.7, 0.9} {
		if r := p.PositionAt(tt).Length(); math.Abs(r-100) > 0.05 {
			t.Errorf("PositionAt(%v) radius = %v, want ≈ 100", tt, r)
		}
	}
}

func TestArcPath_ReverseSweep(t *testing.T) {
	p := NewArcPath(Vector2{}, 100, 0, -90)

	want := math.Pi * 50
	if math.Abs(p.Distance()-want) > want*0.001 {
		t.Errorf("Distance() = %v, want ≈ %v", p.Distance(), want)
	}
	end := p.PositionAt(1)
	if !approxEqual(end.X, -100) || !approxEqual(end.Y, 0) {
		t.Errorf("arc end = %+v, want (-100, 0)", end)
	}
	// 逆时针：行进方向在起点指向左侧
	if a := p.AngleAt(0.01); math.Abs(DeltaAngle(a, -90)) > 2 {
		t.Errorf("AngleAt(0.01) = %v, want ≈ -90", a)
	}
}

func TestBezierPath_EndpointsMatchControlPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Vector2
	}{
		{"二次", []Vector2{{X: 0, Y: 0}, {X: 50, Y: 100}, {X: 100, Y: 0}}},
		{"三次", []Vector2{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewSlidePath(PathSegment{Type: PathBezier, Points: tt.points})
			if err != nil {
				t.Fatalf("NewSlidePath error: %v", err)
			}

			if got := p.PositionAt(0); got != (Vector2{X: 0, Y: 0}) {
				t.Errorf("PositionAt(0) = %+v", got)
			}
			if got := p.PositionAt(1); !approxEqual(got.X, 100) || !approxEqual(got.Y, 0) {
				t.Errorf("PositionAt(1) = %+v", got)
			}
			if p.Distance() <= 100 {
				t.Errorf("curved path should be longer than its chord, got %v", p.Distance())
			}
			// 对称曲线的弧长中点落在对称轴上
			if mid := p.PositionAt(0.5); math.Abs(mid.X-50) > 0.01 {
				t.Errorf("PositionAt(0.5) = %+v, want x ≈ 50", mid)
			}
		})
	}
}

func TestSlidePath_ZeroLength(t *testing.T) {
	p := NewLinePath(Vector2{X: 5, Y: 5}, Vector2{X: 5, Y: 5})

	if p.Distance() != 0 {
		t.Fatalf("Distance() = %v, want 0", p.Distance())
	}
	if got := p.PositionAt(0.5); got != (Vector2{X: 5, Y: 5}) {
		t.Errorf("PositionAt on zero-length path = %+v, want start point", got)
	}
}

func TestNewSlidePath_InvalidSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []PathSegment
	}{
		{"无路径段", nil},
		{"贝塞尔控制点不足", []PathSegment{{Type: PathBezier, Points: []Vector2{{}}}}},
		{"贝塞尔控制点过多", []PathSegment{{Type: PathBezier, Points: make([]Vector2, 5)}}},
		{"圆弧半径为负", []PathSegment{{Type: PathArc, Radius: -1, Sweep: 90}}},
		{"未知类型", []PathSegment{{Type: PathType(99)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSlidePath(tt.segments...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDeltaAngle(t *testing.T) {
	tests := []struct {
		a, b, expected float64
	}{
		{0, 90, 90},
		{350, 10, 20},
		{-170, 170, 20},
		{45, 45, 0},
	}
	for _, tt := range tests {
		if got := DeltaAngle(tt.a, tt.b); !approxEqual(got, tt.expected) {
			t.Errorf("DeltaAngle(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}
