package entities

import (
	"fmt"
	"log"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/types"
)

// SpawnPattern 按谱面创建所有滑条
//
// 参数:
//   - em: 实体管理器
//   - pattern: 已校验的谱面
//   - opts: 所有滑条共用的选项；每个滑条的 Break 取自谱面
//
// 返回:
//   - []ecs.EntityID: 滑条父实体，顺序与谱面一致
//   - error: 任一滑条创建失败时返回错误，已创建的滑条会被销毁
func SpawnPattern(em *ecs.EntityManager, pattern *config.PatternConfig, opts SlideOptions) ([]ecs.EntityID, error) {
	if pattern == nil {
		return nil, fmt.Errorf("pattern cannot be nil")
	}

	slides := make([]ecs.EntityID, 0, len(pattern.Slides))
	fail := func(err error) ([]ecs.EntityID, error) {
		for _, id := range slides {
			destroySlide(em, id)
		}
		return nil, err
	}

	for i, s := range pattern.Slides {
		infos := make([]components.SlideInfo, 0, len(s.Bodies))
		for j, b := range s.Bodies {
			shape, ok := types.ParseSlideShape(b.Shape)
			if !ok {
				return fail(fmt.Errorf("slide %d body %d: unknown shape %q", i, j, b.Shape))
			}
			path, err := NewLaneSlidePath(shape, s.Lane, b.EndLane)
			if err != nil {
				return fail(fmt.Errorf("slide %d body %d: %w", i, j, err))
			}
			infos = append(infos, components.SlideInfo{
				Path:       path,
				Duration:   b.Duration,
				ShootDelay: b.ShootDelay,
				EndLane:    b.EndLane,
			})
		}

		slideOpts := opts
		slideOpts.Break = s.Break
		id, err := NewSlideEntity(em, s.Lane, s.Time, infos, slideOpts)
		if err != nil {
			return fail(fmt.Errorf("slide %d: %w", i, err))
		}
		slides = append(slides, id)
	}

	log.Printf("[PatternFactory] 谱面 %q: 创建 %d 个滑条", pattern.Name, len(slides))
	return slides, nil
}
