// slidecheck 无界面运行谱面并打印每个节点的判定，用于调整判定窗口
//
// 用法：
//
//	go run ./cmd/slidecheck data/config/demo_pattern.yaml --auto
//	go run ./cmd/slidecheck data/config/demo_pattern.yaml -c my_judgement.yaml --history scores.db
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/events"
	"github.com/gonewx/sentakki/pkg/game"
	"github.com/gonewx/sentakki/pkg/scenes"
	"github.com/gonewx/sentakki/pkg/scoring"
)

var (
	patternFile = kingpin.Arg("pattern", "谱面 YAML 文件").Required().ExistingFile()
	configFile  = kingpin.Flag("config", "判定配置文件").Short('c').ExistingFile()
	difficulty  = kingpin.Flag("difficulty", "判定难度 0-10").Short('d').Default("5").Float64()
	autoPlay    = kingpin.Flag("auto", "自动演奏（否则没有任何输入）").Short('a').Bool()
	fps         = kingpin.Flag("fps", "模拟帧率").Default("60").Float64()
	historyDB   = kingpin.Flag("history", "把本体判定写入 SQLite 文件").String()
	verbose     = kingpin.Flag("verbose", "显示系统日志").Short('v').Bool()
	showWindows = kingpin.Flag("windows", "先打印当前难度下的滑条与 Touch 判定窗口").Short('w').Bool()
)

// printer 打印节点与本体事件
type printer struct {
	out io.Writer
}

func (p printer) node(e events.JudgementEvent) {
	fmt.Fprintf(p.out, "%8.0fms  slide %-4d node %-2d %-12s %s\n", e.Time, e.Body, e.Index, e.Kind, e.Result)
}

func (p printer) OnSlideJudged(e events.JudgementEvent) {
	brk := ""
	if e.Break {
		brk = " (break)"
	}
	fmt.Fprintf(p.out, "%8.0fms  slide %-4d => %s%s\n", e.Time, e.Body, e.Result, brk)
}

func (p printer) OnSlideReverted(e events.JudgementEvent) {
	fmt.Fprintf(p.out, "%8.0fms  slide %-4d reverted %s\n", e.Time, e.Body, e.Result)
}

func main() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "slidecheck:", err)
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	data, err := os.ReadFile(*patternFile)
	if err != nil {
		return fmt.Errorf("failed to read pattern: %w", err)
	}
	pattern, err := config.ParsePatternConfig(data)
	if err != nil {
		return fmt.Errorf("invalid pattern %s: %w", *patternFile, err)
	}

	judgementCfg := config.DefaultJudgementConfig()
	if *configFile != "" {
		if judgementCfg, err = config.LoadJudgementConfigFile(*configFile); err != nil {
			return err
		}
	}
	if *fps <= 0 {
		return fmt.Errorf("fps must be positive, got %v", *fps)
	}

	if *showWindows {
		if err := printWindows(out, judgementCfg, *difficulty); err != nil {
			return err
		}
	}

	p := printer{out: out}
	stats := game.NewJudgementStatsManager(nil)
	cfg := scenes.SessionConfig{
		Judgement:  judgementCfg,
		Pattern:    pattern,
		Difficulty: *difficulty,
		AutoPlay:   *autoPlay,
	}
	cfg.Sinks = append(cfg.Sinks, p, stats)

	var history *game.ScoreHistory
	if *historyDB != "" {
		if history, err = game.OpenScoreHistory(*historyDB, ""); err != nil {
			return err
		}
		defer history.Close()
		cfg.Sinks = append(cfg.Sinks, history)
	}

	session, err := scenes.NewSlideSession(cfg)
	if err != nil {
		return err
	}
	session.Dispatcher.OnNodeEvent = p.node

	dt := 1 / *fps
	for !session.Finished() {
		session.Tick(dt)
	}
	session.Tick(dt)

	st := stats.GetStats()
	fmt.Fprintf(out, "\n%d slides, hit rate %.1f%%\n", st.TotalSlides, st.HitRate()*100)
	for r := scoring.MaxResult; r >= scoring.MinResult; r-- {
		fmt.Fprintf(out, "  %-8s %d (break %d)\n", r, st.Count(r), st.BreakCount(r))
	}

	if history != nil {
		summary, err := history.Summary(history.Session())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "recorded %d rows in %s (session %s)\n", sumCounts(summary), *historyDB, history.Session())
	}
	return nil
}

// printWindows 打印每个结果的单侧窗口（毫秒）
func printWindows(out io.Writer, cfg *config.JudgementConfig, difficulty float64) error {
	slide, err := cfg.SlideRanges()
	if err != nil {
		return err
	}
	touch, err := cfg.TouchRanges()
	if err != nil {
		return err
	}
	slideWindows := scoring.NewHitWindows(slide)
	touchWindows := scoring.NewHitWindows(touch)
	slideWindows.SetDifficulty(difficulty)
	touchWindows.SetDifficulty(difficulty)

	fmt.Fprintf(out, "windows at difficulty %.1f (slide / touch)\n", difficulty)
	for r := scoring.MaxResult; r >= scoring.MinResult; r-- {
		fmt.Fprintf(out, "  %-8s %6.1f / %6.1f\n", r, slideWindows.WindowFor(r), touchWindows.WindowFor(r))
	}
	fmt.Fprintln(out)
	return nil
}

func sumCounts(summary map[scoring.HitResult]int) int {
	total := 0
	for _, n := range summary {
		total += n
	}
	return total
}
