package config

import (
	"fmt"
	"os"

	"github.com/gonewx/sentakki/pkg/embedded"
	"github.com/gonewx/sentakki/pkg/scoring"
	"gopkg.in/yaml.v3"
)

// DefaultJudgementConfigPath 嵌入的默认判定配置
const DefaultJudgementConfigPath = "data/config/judgement.yaml"

// WindowRange 单个判定结果的窗口档位（毫秒）
type WindowRange struct {
	Result  string  `yaml:"result"`  // Miss / Meh / Good / Great / Perfect
	Min     float64 `yaml:"min"`     // 难度 0
	Average float64 `yaml:"average"` // 难度 5
	Max     float64 `yaml:"max"`     // 难度 10
}

// SlideTrackingConfig 滑条跟踪参数
type SlideTrackingConfig struct {
	ChevronDistance float64 `yaml:"chevronDistance"` // 相邻检查点的路径距离
	NodeRadius      float64 `yaml:"nodeRadius"`      // 节点悬停半径
	TrackingRadius  float64 `yaml:"trackingRadius"`  // 指针与目标点的最大距离
	TrackingStep    float64 `yaml:"trackingStep"`    // 每次推进的进度步长
}

// WindowsConfig 各类物件的窗口档位
type WindowsConfig struct {
	Slide []WindowRange `yaml:"slide"`
	Touch []WindowRange `yaml:"touch"`
}

// JudgementConfig 判定配置文件结构
type JudgementConfig struct {
	Difficulty float64             `yaml:"difficulty"`
	Slide      SlideTrackingConfig `yaml:"slide"`
	Windows    WindowsConfig       `yaml:"windows"`
}

// DefaultJudgementConfig 代码内置的默认配置，与 data/config/judgement.yaml 一致
func DefaultJudgementConfig() *JudgementConfig {
	return &JudgementConfig{
		Difficulty: scoring.MidDifficulty,
		Slide: SlideTrackingConfig{
			ChevronDistance: SlideChevronDistance,
			NodeRadius:      SlideNodeRadius,
			TrackingRadius:  SlideTrackingRadius,
			TrackingStep:    SlideTrackingStep,
		},
		Windows: WindowsConfig{
			Slide: toWindowRanges(scoring.DefaultSlideRanges()),
			Touch: toWindowRanges(scoring.DefaultTouchRanges()),
		},
	}
}

// LoadJudgementConfig 从嵌入资源加载判定配置
// 参数：
//
//	path - 以 "data/" 开头的嵌入路径
//
// 返回：
//
//	*JudgementConfig - 解析并校验后的配置
//	error - 读取、解析或校验失败
func LoadJudgementConfig(path string) (*JudgementConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read judgement config %s: %w", path, err)
	}
	cfg, err := ParseJudgementConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid judgement config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadJudgementConfigFile 从磁盘文件加载判定配置（命令行 --config 覆盖）
func LoadJudgementConfigFile(path string) (*JudgementConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read judgement config %s: %w", path, err)
	}
	cfg, err := ParseJudgementConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid judgement config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseJudgementConfig 解析 YAML 内容
// 未填写的字段使用默认值
func ParseJudgementConfig(data []byte) (*JudgementConfig, error) {
	cfg := DefaultJudgementConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置的合法性
func (c *JudgementConfig) Validate() error {
	if c.Difficulty < scoring.MinDifficulty || c.Difficulty > scoring.MaxDifficulty {
		return fmt.Errorf("difficulty must be between %.0f and %.0f, got %v", scoring.MinDifficulty, scoring.MaxDifficulty, c.Difficulty)
	}
	if c.Slide.ChevronDistance <= 0 {
		return fmt.Errorf("slide.chevronDistance must be positive, got %v", c.Slide.ChevronDistance)
	}
	if c.Slide.NodeRadius <= 0 {
		return fmt.Errorf("slide.nodeRadius must be positive, got %v", c.Slide.NodeRadius)
	}
	if c.Slide.TrackingRadius <= 0 {
		return fmt.Errorf("slide.trackingRadius must be positive, got %v", c.Slide.TrackingRadius)
	}
	if c.Slide.TrackingStep <= 0 || c.Slide.TrackingStep > 0.1 {
		return fmt.Errorf("slide.trackingStep must be in (0, 0.1], got %v", c.Slide.TrackingStep)
	}

	if _, err := c.SlideRanges(); err != nil {
		return fmt.Errorf("windows.slide: %w", err)
	}
	if _, err := c.TouchRanges(); err != nil {
		return fmt.Errorf("windows.touch: %w", err)
	}
	return nil
}

// SlideRanges 滑条窗口档位
func (c *JudgementConfig) SlideRanges() ([]scoring.DifficultyRange, error) {
	return toDifficultyRanges(c.Windows.Slide)
}

// TouchRanges Touch 窗口档位
func (c *JudgementConfig) TouchRanges() ([]scoring.DifficultyRange, error) {
	return toDifficultyRanges(c.Windows.Touch)
}

func toDifficultyRanges(ranges []WindowRange) ([]scoring.DifficultyRange, error) {
	out := make([]scoring.DifficultyRange, 0, len(ranges))
	for _, r := range ranges {
		result := scoring.ParseHitResult(r.Result)
		if result == scoring.ResultNone {
			return nil, fmt.Errorf("unknown result %q", r.Result)
		}
		out = append(out, scoring.DifficultyRange{Result: result, Min: r.Min, Average: r.Average, Max: r.Max})
	}
	if err := scoring.ValidateRanges(out); err != nil {
		return nil, err
	}
	return out, nil
}

func toWindowRanges(ranges []scoring.DifficultyRange) []WindowRange {
	out := make([]WindowRange, len(ranges))
	for i, r := range ranges {
		out[i] = WindowRange{Result: r.Result.String(), Min: r.Min, Average: r.Average, Max: r.Max}
	}
	return out
}
