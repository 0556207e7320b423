package main

import (
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/gonewx/sentakki/pkg/app"
	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/embedded"
)

var (
	verbose     = kingpin.Flag("verbose", "显示详细日志").Short('v').Bool()
	configPath  = kingpin.Flag("config", "判定配置文件（默认使用内置配置）").Short('c').ExistingFile()
	patternPath = kingpin.Flag("pattern", "内置谱面路径").Default(config.DefaultPatternPath).String()
	historyPath = kingpin.Flag("history", "SQLite 判定历史文件，为空时不记录").Default("").String()
	difficulty  = kingpin.Flag("difficulty", "判定难度 0-10，小于 0 时使用已保存的设置").Short('d').Default("-1").Float64()
	autoPlay    = kingpin.Flag("auto", "自动演奏").Short('a').Bool()
)

func main() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:             *verbose,
		JudgementConfigPath: *configPath,
		PatternPath:         *patternPath,
		HistoryPath:         *historyPath,
		Difficulty:          *difficulty,
		AutoPlay:            *autoPlay,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(int(config.ScreenWidth), int(config.ScreenHeight))
	ebiten.SetWindowTitle("Sentakki - 星星滑条")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(gameApp)
	gameApp.Shutdown()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}
