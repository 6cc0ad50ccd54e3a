// directorcheck 校验关卡导演 YAML，并打印前若干个段索引的节奏表
//
// 用法：
//
//	go run ./cmd/directorcheck [-count 30] [-compare] [data/track/director.yaml]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/embedded"
)

var (
	countFlag   = flag.Int("count", 30, "打印的段索引数量")
	compareFlag = flag.Bool("compare", false, "与内置导演表逐项比较")
)

func main() {
	flag.Parse()

	path := embedded.LevelDirectorPath
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	if err := run(os.Stdout, path, *countFlag, *compareFlag); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, path string, count int, compare bool) error {
	director, err := config.LoadLevelDirector(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✅ YAML 格式正确: %s\n", path)
	fmt.Fprintf(w, "✅ 规则数量: %d\n", len(director.Rules))
	fmt.Fprintf(w, "\n%5s  %-12s %-10s %-8s %6s %8s %6s %6s %6s\n",
		"index", "rule", "type", "biome", "width", "meander", "vbias", "flow", "shake")

	for i := 0; i < count; i++ {
		c := director.ConfigFor(i)
		fmt.Fprintf(w, "%5d  %-12s %-10s %-8s %6.1f %8.2f %6.2f %6.2f %6.2f\n",
			i, director.RuleFor(i), c.Type, c.Biome, c.Width, c.MeanderStrength, c.VerticalBias, c.FlowSpeed, c.CameraShake)
	}

	if !compare {
		return nil
	}

	builtin := config.DefaultLevelDirector()
	mismatched := 0
	for i := 0; i < count; i++ {
		if director.ConfigFor(i) != builtin.ConfigFor(i) {
			fmt.Fprintf(w, "❌ 索引 %d 与内置表不一致\n", i)
			mismatched++
		}
	}
	if mismatched > 0 {
		return fmt.Errorf("%d 个索引与内置导演表不一致", mismatched)
	}
	fmt.Fprintf(w, "✅ 前 %d 个索引与内置导演表一致\n", count)
	return nil
}
