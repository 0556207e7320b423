package config

import (
	"fmt"
	"math"

	"github.com/gonewx/sentakki/pkg/embedded"
	"github.com/gonewx/sentakki/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultPatternPath 嵌入的演示谱面
const DefaultPatternPath = "data/config/demo_pattern.yaml"

// PatternBody 一条滑条路径
type PatternBody struct {
	Shape      string  `yaml:"shape"`      // straight / circle / circle-reverse / v
	EndLane    int     `yaml:"endLane"`    // 相对起点键位的偏移
	Duration   float64 `yaml:"duration"`   // 毫秒
	ShootDelay float64 `yaml:"shootDelay"` // 毫秒
}

// PatternSlide 一个滑条物件
type PatternSlide struct {
	Time   float64       `yaml:"time"`
	Lane   int           `yaml:"lane"`
	Break  bool          `yaml:"break"`
	Bodies []PatternBody `yaml:"bodies"`
}

// PatternConfig 谱面配置
type PatternConfig struct {
	Name   string         `yaml:"name"`
	LeadIn float64        `yaml:"leadIn"` // 第一个物件之前的准备时间
	Slides []PatternSlide `yaml:"slides"`
}

// LoadPatternConfig 从嵌入资源加载谱面
func LoadPatternConfig(path string) (*PatternConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern %s: %w", path, err)
	}
	cfg, err := ParsePatternConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", path, err)
	}
	return cfg, nil
}

// ParsePatternConfig 解析并校验谱面
func ParsePatternConfig(data []byte) (*PatternConfig, error) {
	var cfg PatternConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验谱面
func (c *PatternConfig) Validate() error {
	if len(c.Slides) == 0 {
		return fmt.Errorf("pattern has no slides")
	}
	if c.LeadIn < 0 {
		return fmt.Errorf("leadIn cannot be negative, got %v", c.LeadIn)
	}
	for i, s := range c.Slides {
		if s.Lane < 0 || s.Lane >= types.LaneCount {
			return fmt.Errorf("slide %d: lane %d out of range", i, s.Lane)
		}
		if len(s.Bodies) == 0 {
			return fmt.Errorf("slide %d: no bodies", i)
		}
		for j, b := range s.Bodies {
			if _, ok := types.ParseSlideShape(b.Shape); !ok {
				return fmt.Errorf("slide %d body %d: unknown shape %q", i, j, b.Shape)
			}
			if b.Duration <= 0 || b.ShootDelay < 0 || b.ShootDelay > b.Duration {
				return fmt.Errorf("slide %d body %d: invalid timing (duration %v, shootDelay %v)", i, j, b.Duration, b.ShootDelay)
			}
		}
	}
	return nil
}

// StartTime 谱面中最早的滑条时间
func (c *PatternConfig) StartTime() float64 {
	start := math.Inf(1)
	for _, s := range c.Slides {
		start = math.Min(start, s.Time)
	}
	if math.IsInf(start, 1) {
		return 0
	}
	return start
}

// EndTime 谱面中最晚结束的滑条时间
func (c *PatternConfig) EndTime() float64 {
	end := 0.0
	for _, s := range c.Slides {
		for _, b := range s.Bodies {
			if t := s.Time + b.Duration; t > end {
				end = t
			}
		}
	}
	return end
}
