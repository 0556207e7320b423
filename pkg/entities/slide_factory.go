package entities

import (
	"fmt"
	"log"
	"math"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/geometry"
	"github.com/gonewx/sentakki/pkg/scoring"
	"github.com/gonewx/sentakki/pkg/types"
)

// SlideOptions 创建滑条时的可选参数
type SlideOptions struct {
	Difficulty float64                   // 判定窗口难度（0-10）
	Ranges     []scoring.DifficultyRange // 判定窗口档位，为空时使用默认滑条窗口
	Auto       bool                      // 自动演奏
	Break      bool                      // 绝赞

	ChevronDistance float64 // 检查点间距，为 0 时使用 config.SlideChevronDistance

	// OnLaneChange 键位或绝赞标记变化时的回调（星星头与每条路径共用）
	OnLaneChange func(lane int, isBreak bool)
}

// nestedObject 构造嵌套物件所需的数据
type nestedObject struct {
	Kind      types.HitObjectKind
	Parent    ecs.EntityID
	StartTime float64
	Lane      int

	// 仅 SlideBody 使用
	Info *components.SlideInfo
	// 仅 SlideNode 使用
	Index    int
	Progress float64
	Envelope components.SlideEnvelope
}

type nestedBuilder func(em *ecs.EntityManager, obj nestedObject, opts SlideOptions) (ecs.EntityID, error)

// nestedBuilders 嵌套物件种类到构造函数的分发表
var nestedBuilders map[types.HitObjectKind]nestedBuilder

func init() {
	nestedBuilders = map[types.HitObjectKind]nestedBuilder{
		types.HitObjectTap:       buildTap,
		types.HitObjectSlideBody: buildSlideBody,
		types.HitObjectSlideNode: buildSlideNode,
	}
}

func buildNested(em *ecs.EntityManager, obj nestedObject, opts SlideOptions) (ecs.EntityID, error) {
	build, ok := nestedBuilders[obj.Kind]
	if !ok {
		return 0, fmt.Errorf("unsupported nested hit object kind %s", obj.Kind)
	}
	return build(em, obj, opts)
}

// GenerateNodeProgresses 根据路径长度生成判定节点的进度序列
//
// 检查点数量 = ceil(distance / spacing)，在第 5、10、15… 个检查点放置节点
// （要求下标 < 检查点数量 - 2），最后固定追加进度为 1 的尾节点。
// 检查点不超过 7 个、长度为 0 或参数非法时只有尾节点。
//
// 返回:
//   - []float64: 严格递增的进度序列，最后一个元素恒为 1
func GenerateNodeProgresses(distance, spacing float64) []float64 {
	count := CheckpointCount(distance, spacing)
	if count == 0 {
		return []float64{1}
	}

	interval := 1.0 / float64(count)
	progresses := make([]float64, 0, count/config.SlideNodeStride+1)
	for i := config.SlideNodeStride; i < count-config.SlideNodeTailGap; i += config.SlideNodeStride {
		progresses = append(progresses, float64(i)*interval)
	}
	return append(progresses, 1)
}

// CheckpointCount 路径上的检查点数量，长度或间距非法时返回 0
func CheckpointCount(distance, spacing float64) int {
	if !(distance > 0) || !(spacing > 0) || math.IsInf(distance, 0) {
		return 0
	}
	return int(math.Ceil(distance / spacing))
}

// NewSlideEntity 创建滑条：一个星星头（Tap）加上每条路径各一个滑条本体
//
// 参数:
//   - em: 实体管理器
//   - lane: 星星头键位（0-7）
//   - startTime: 星星头时间（毫秒）
//   - infos: 路径列表，至少一条
//   - opts: 难度、自动演奏等选项
//
// 返回:
//   - ecs.EntityID: 滑条父实体ID，失败时返回 0
//   - error: 参数非法或嵌套物件创建失败
//
// 每条路径的键位 = (EndLane + lane) mod 8
func NewSlideEntity(
	em *ecs.EntityManager,
	lane int,
	startTime float64,
	infos []components.SlideInfo,
	opts SlideOptions,
) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if lane < 0 || lane >= types.LaneCount {
		return 0, fmt.Errorf("invalid lane %d, must be between 0 and %d", lane, types.LaneCount-1)
	}
	if len(infos) == 0 {
		return 0, fmt.Errorf("slide needs at least one path")
	}

	slideID := em.CreateEntity()
	slide := &components.SlideComponent{
		StartTime: startTime,
		Infos:     append([]components.SlideInfo(nil), infos...),
	}
	ecs.AddComponent(em, slideID, &components.LaneComponent{
		Lane:     lane,
		Break:    opts.Break,
		OnChange: opts.OnLaneChange,
	})
	ecs.AddComponent(em, slideID, slide)

	headID, err := buildNested(em, nestedObject{
		Kind:      types.HitObjectTap,
		Parent:    slideID,
		StartTime: startTime,
		Lane:      lane,
	}, opts)
	if err != nil {
		destroySlide(em, slideID)
		return 0, fmt.Errorf("failed to create slide head: %w", err)
	}
	slide.Head = headID

	for i := range slide.Infos {
		bodyID, err := buildNested(em, nestedObject{
			Kind:      types.HitObjectSlideBody,
			Parent:    slideID,
			StartTime: startTime,
			Lane:      types.NormalizeLane(slide.Infos[i].EndLane + lane),
			Info:      &slide.Infos[i],
		}, opts)
		if err != nil {
			destroySlide(em, slideID)
			return 0, fmt.Errorf("failed to create slide body %d: %w", i, err)
		}
		slide.Bodies = append(slide.Bodies, bodyID)
	}

	log.Printf("[SlideFactory] 创建滑条 %d: 键位=%d, 开始=%.0fms, 路径数=%d, 时长=%.0fms",
		slideID, lane, startTime, len(slide.Bodies), slide.Duration())
	return slideID, nil
}

// NewSlideBodyEntity 创建单条滑条路径及其判定节点，不带星星头
//
// 参数:
//   - em: 实体管理器
//   - lane: 路径终点键位
//   - startTime: 滑条开始时间（毫秒）
//   - info: 路径数据
//   - opts: 难度、自动演奏等选项
//
// 返回:
//   - ecs.EntityID: 滑条本体实体ID，失败时返回 0
//   - error: 路径为空或时长非法
func NewSlideBodyEntity(
	em *ecs.EntityManager,
	lane int,
	startTime float64,
	info components.SlideInfo,
	opts SlideOptions,
) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	return buildNested(em, nestedObject{
		Kind:      types.HitObjectSlideBody,
		StartTime: startTime,
		Lane:      types.NormalizeLane(lane),
		Info:      &info,
	}, opts)
}

// DestroySlide 销毁滑条父实体及其全部嵌套物件
func DestroySlide(em *ecs.EntityManager, slideID ecs.EntityID) {
	destroySlide(em, slideID)
}

func destroySlide(em *ecs.EntityManager, slideID ecs.EntityID) {
	if slide, ok := ecs.GetComponent[*components.SlideComponent](em, slideID); ok {
		if slide.Head != 0 {
			em.DestroyEntity(slide.Head)
		}
		for _, bodyID := range slide.Bodies {
			destroySlideBody(em, bodyID)
		}
	}
	em.DestroyEntity(slideID)
	em.RemoveMarkedEntities()
}

func destroySlideBody(em *ecs.EntityManager, bodyID ecs.EntityID) {
	if body, ok := ecs.GetComponent[*components.SlideBodyComponent](em, bodyID); ok {
		for _, nodeID := range body.Nodes {
			em.DestroyEntity(nodeID)
		}
	}
	em.DestroyEntity(bodyID)
}

func buildTap(em *ecs.EntityManager, obj nestedObject, opts SlideOptions) (ecs.EntityID, error) {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.HitObjectComponent{
		Kind:      types.HitObjectTap,
		StartTime: obj.StartTime,
		Parent:    obj.Parent,
	})
	ecs.AddComponent(em, id, &components.LaneComponent{
		Lane:     obj.Lane,
		Break:    opts.Break,
		OnChange: opts.OnLaneChange,
	})
	return id, nil
}

func buildSlideBody(em *ecs.EntityManager, obj nestedObject, opts SlideOptions) (ecs.EntityID, error) {
	info := obj.Info
	if info == nil || info.Path == nil {
		return 0, fmt.Errorf("slide body needs a path")
	}
	if info.Duration < 0 || info.ShootDelay < 0 || info.ShootDelay > info.Duration {
		return 0, fmt.Errorf("invalid slide timing: duration=%.1f shootDelay=%.1f", info.Duration, info.ShootDelay)
	}

	ranges := opts.Ranges
	if len(ranges) == 0 {
		ranges = scoring.DefaultSlideRanges()
	}
	windows := scoring.NewHitWindows(ranges)
	windows.SetDifficulty(opts.Difficulty)

	envelope := components.SlideEnvelope{
		StartTime:  obj.StartTime,
		Duration:   info.Duration,
		ShootDelay: info.ShootDelay,
	}

	bodyID := em.CreateEntity()
	body := &components.SlideBodyComponent{
		Path:     info.Path,
		Envelope: envelope,
		Windows:  windows,
		Auto:     opts.Auto,
	}
	ecs.AddComponent(em, bodyID, &components.HitObjectComponent{
		Kind:      types.HitObjectSlideBody,
		StartTime: obj.StartTime,
		Parent:    obj.Parent,
	})
	ecs.AddComponent(em, bodyID, &components.LaneComponent{
		Lane:     obj.Lane,
		Break:    opts.Break,
		OnChange: opts.OnLaneChange,
	})
	ecs.AddComponent(em, bodyID, body)
	ecs.AddComponent(em, bodyID, &components.JudgementComponent{})
	ecs.AddComponent(em, bodyID, &components.SlideProgressComponent{})
	ecs.AddComponent(em, bodyID, &components.SlideStarComponent{})

	spacing := opts.ChevronDistance
	if spacing <= 0 {
		spacing = config.SlideChevronDistance
	}
	progresses := GenerateNodeProgresses(info.Path.Distance(), spacing)
	for i, p := range progresses {
		nodeID, err := buildNested(em, nestedObject{
			Kind:     types.HitObjectSlideNode,
			Parent:   bodyID,
			Index:    i,
			Progress: p,
			Envelope: envelope,
		}, opts)
		if err != nil {
			destroySlideBody(em, bodyID)
			em.RemoveMarkedEntities()
			return 0, err
		}
		body.Nodes = append(body.Nodes, nodeID)
	}

	ecs.AddComponent(em, bodyID, BuildSlideVisual(info.Path, spacing, progresses))
	return bodyID, nil
}

func buildSlideNode(em *ecs.EntityManager, obj nestedObject, _ SlideOptions) (ecs.EntityID, error) {
	if obj.Progress <= 0 || obj.Progress > 1 {
		return 0, fmt.Errorf("invalid node progress %v", obj.Progress)
	}

	startTime := obj.Envelope.NodeTime(obj.Progress)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.HitObjectComponent{
		Kind:      types.HitObjectSlideNode,
		StartTime: startTime,
		Parent:    obj.Parent,
	})
	ecs.AddComponent(em, id, &components.SlideNodeComponent{
		Body:     obj.Parent,
		Index:    obj.Index,
		Progress: obj.Progress,
		IsTail:   obj.Progress == 1,
	})
	ecs.AddComponent(em, id, &components.JudgementComponent{})
	return id, nil
}

// BuildSlideVisual 生成滑条的箭头与分段布局
//
// 每个检查点 1..count-1 放一个箭头，朝向取自前一个检查点；
// 与前一个箭头转角 >= 89° 的箭头隐藏。
// 箭头按节点分段：第 k 段包含 (节点 k-1, 节点 k] 之间的箭头。
func BuildSlideVisual(path *geometry.SlidePath, spacing float64, nodeProgresses []float64) *components.SlideVisualComponent {
	visual := &components.SlideVisualComponent{PendingUpdate: true}
	LayoutSlideVisual(visual, path, spacing, nodeProgresses)
	return visual
}

// LayoutSlideVisual 在已有的显示组件上重新布局，复用箭头与分段切片
func LayoutSlideVisual(visual *components.SlideVisualComponent, path *geometry.SlidePath, spacing float64, nodeProgresses []float64) {
	visual.Chevrons = visual.Chevrons[:0]
	visual.Segments = visual.Segments[:0]
	visual.Fill = 0
	visual.PendingUpdate = true

	count := CheckpointCount(path.Distance(), spacing)
	interval := 0.0
	if count > 0 {
		interval = 1.0 / float64(count)
	}

	prevAngle := math.NaN()
	segStart := 0.0
	next := 1
	for k, progress := range nodeProgresses {
		seg := components.SlideSegment{
			NodeIndex:     k,
			FirstChevron:  len(visual.Chevrons),
			StartProgress: segStart,
			EndProgress:   progress,
		}
		// 段内箭头：检查点下标不超过节点所在检查点
		last := int(math.Round(progress * float64(count)))
		for ; next <= last && next < count; next++ {
			prevPos := path.PositionAt(float64(next-1) * interval)
			pos := path.PositionAt(float64(next) * interval)
			angle := prevPos.DegreesTo(pos)
			if math.IsNaN(prevAngle) {
				prevAngle = angle
			}
			visual.Chevrons = append(visual.Chevrons, components.SlideChevron{
				Position: pos,
				Rotation: angle,
				Hidden:   geometry.DeltaAngle(prevAngle, angle) >= config.ChevronHideAngle,
				Alpha:    1,
			})
			prevAngle = angle
		}
		seg.ChevronCount = len(visual.Chevrons) - seg.FirstChevron
		visual.Segments = append(visual.Segments, seg)
		segStart = progress
	}
}
