package systems

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/entities"
	"github.com/gonewx/sentakki/pkg/geometry"
	"github.com/gonewx/sentakki/pkg/scoring"
	"github.com/gonewx/sentakki/pkg/types"
	"github.com/gonewx/sentakki/pkg/utils"
)

var (
	ringColor    = color.RGBA{R: 200, G: 200, B: 220, A: 255}
	laneColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	chevronColor = color.RGBA{R: 80, G: 200, B: 255, A: 255}
	breakColor   = color.RGBA{R: 255, G: 170, B: 40, A: 255}
	starColor    = color.RGBA{R: 255, G: 240, B: 120, A: 255}
	pendingColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}
)

// resultColors 节点判定结果对应的颜色
var resultColors = map[scoring.HitResult]color.RGBA{
	scoring.ResultMiss:    {R: 230, G: 60, B: 60, A: 255},
	scoring.ResultMeh:     {R: 200, G: 120, B: 60, A: 255},
	scoring.ResultGood:    {R: 80, G: 220, B: 80, A: 255},
	scoring.ResultGreat:   {R: 240, G: 120, B: 200, A: 255},
	scoring.ResultPerfect: {R: 250, G: 220, B: 60, A: 255},
}

// SlideRenderSystem 滑条调试渲染系统
//
// 只读取组件状态：判定圈、箭头（按显示组件的透明度）、星星与节点标记。
type SlideRenderSystem struct {
	entityManager *ecs.EntityManager
	clock         Clock
}

// NewSlideRenderSystem 创建滑条渲染系统
func NewSlideRenderSystem(em *ecs.EntityManager, clock Clock) *SlideRenderSystem {
	return &SlideRenderSystem{entityManager: em, clock: clock}
}

// Draw 绘制判定圈与所有可见滑条
func (s *SlideRenderSystem) Draw(screen *ebiten.Image) {
	s.drawRing(screen)

	now := s.clock.CurrentTime()
	entities := ecs.GetEntitiesWith2[*components.SlideBodyComponent, *components.SlideVisualComponent](s.entityManager)
	for _, id := range entities {
		body, _ := ecs.GetComponent[*components.SlideBodyComponent](s.entityManager, id)
		// 只绘制开始前一秒到结束后半秒内的滑条
		if now < body.Envelope.StartTime-1000 || now > body.Envelope.EndTime()+500 {
			continue
		}
		visual, _ := ecs.GetComponent[*components.SlideVisualComponent](s.entityManager, id)
		s.drawChevrons(screen, id, visual)
		s.drawNodes(screen, body)
		if star, ok := ecs.GetComponent[*components.SlideStarComponent](s.entityManager, id); ok && star.Visible {
			s.drawStar(screen, star)
		}
	}
}

func (s *SlideRenderSystem) drawRing(screen *ebiten.Image) {
	cx, cy := toScreen(geometry.Vector2{})
	vector.StrokeCircle(screen, cx, cy, float32(config.RingRadius), config.RingStrokeWidth, ringColor, true)
	for lane := 0; lane < types.LaneCount; lane++ {
		x, y := toScreen(entities.LanePosition(lane))
		vector.DrawFilledCircle(screen, x, y, config.NodeMarkerRadius, laneColor, true)
	}
}

func (s *SlideRenderSystem) drawChevrons(screen *ebiten.Image, id ecs.EntityID, visual *components.SlideVisualComponent) {
	base := chevronColor
	if lane, ok := ecs.GetComponent[*components.LaneComponent](s.entityManager, id); ok && lane.Break {
		base = breakColor
	}
	const half = 8.0
	for _, c := range visual.Chevrons {
		if c.Hidden || c.Alpha <= 0 {
			continue
		}
		clr := withAlpha(base, c.Alpha)
		// 以箭头位置为尖端，向后展开两条边
		tipX, tipY := toScreen(c.Position)
		for _, side := range []float64{-1, 1} {
			tail := c.Position.Add(geometry.CircularPosition(half*math.Sqrt2, c.Rotation+180+45*side))
			x, y := toScreen(tail)
			vector.StrokeLine(screen, tipX, tipY, x, y, 3, clr, true)
		}
	}
}

func (s *SlideRenderSystem) drawNodes(screen *ebiten.Image, body *components.SlideBodyComponent) {
	for _, nodeID := range body.Nodes {
		node, ok1 := ecs.GetComponent[*components.SlideNodeComponent](s.entityManager, nodeID)
		j, ok2 := ecs.GetComponent[*components.JudgementComponent](s.entityManager, nodeID)
		if !ok1 || !ok2 {
			continue
		}
		clr := pendingColor
		if j.HasResult {
			clr = resultColors[j.Type]
		}
		x, y := toScreen(body.Path.PositionAt(node.Progress))
		vector.StrokeCircle(screen, x, y, config.NodeMarkerRadius, 2, clr, true)
	}
}

func (s *SlideRenderSystem) drawStar(screen *ebiten.Image, star *components.SlideStarComponent) {
	pos := geometry.Vector2{X: star.X, Y: star.Y}
	x, y := toScreen(pos)
	r := config.StarPieceRadius * float32(star.Scale)
	vector.StrokeCircle(screen, x, y, r, 3, starColor, true)
	// 朝向指示
	tip := pos.Add(geometry.CircularPosition(float64(r), star.Rotation))
	tx, ty := toScreen(tip)
	vector.StrokeLine(screen, x, y, tx, ty, 2, starColor, true)
}

func toScreen(p geometry.Vector2) (float32, float32) {
	x, y := utils.PlayfieldToScreen(p.X, p.Y, config.ScreenWidth, config.ScreenHeight)
	return float32(x), float32(y)
}

func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
