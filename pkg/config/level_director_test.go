package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gonewx/watershed/pkg/types"
)

// TestDefaultDirectorPacing 测试默认节奏表的关键段
func TestDefaultDirectorPacing(t *testing.T) {
	d := DefaultLevelDirector()

	tests := []struct {
		index    int
		rule     string
		segType  types.SegmentType
		biome    types.Biome
		validate func(*testing.T, SegmentConfig)
	}{
		{0, "meander", types.SegmentNormal, types.BiomeSummer, func(t *testing.T, c SegmentConfig) {
			if c.MeanderStrength != 0.45 {
				t.Errorf("meanderStrength = %v, 期望 0.45", c.MeanderStrength)
			}
		}},
		{12, "meander", types.SegmentNormal, types.BiomeSummer, nil},
		{13, "approach", types.SegmentApproach, types.BiomeSummer, func(t *testing.T, c SegmentConfig) {
			if c.FlowSpeed != 1.6 {
				t.Errorf("flowSpeed = %v, 期望 1.6", c.FlowSpeed)
			}
		}},
		{14, "waterfall", types.SegmentWaterfall, types.BiomeSummer, func(t *testing.T, c SegmentConfig) {
			if c.MeanderStrength != 0 {
				t.Errorf("meanderStrength = %v, 期望 0", c.MeanderStrength)
			}
			if c.ForwardMomentum != 0.15 {
				t.Errorf("forwardMomentum = %v, 期望 0.15", c.ForwardMomentum)
			}
			if c.ParticleCount != 400 {
				t.Errorf("particleCount = %d, 期望 400", c.ParticleCount)
			}
		}},
		{15, "splash", types.SegmentSplash, types.BiomeAutumn, func(t *testing.T, c SegmentConfig) {
			if c.TransitionDuration != 3.0 {
				t.Errorf("transitionDuration = %v, 期望 3.0", c.TransitionDuration)
			}
		}},
		{16, "pond", types.SegmentPond, types.BiomeAutumn, func(t *testing.T, c SegmentConfig) {
			if c.Width != 60 {
				t.Errorf("width = %v, 期望 60", c.Width)
			}
		}},
		{18, "pond", types.SegmentPond, types.BiomeAutumn, nil},
		{19, "autumn-rapids", types.SegmentNormal, types.BiomeAutumn, func(t *testing.T, c SegmentConfig) {
			if c.RockDensity != types.RockDensityHigh {
				t.Errorf("rockDensity = %s, 期望 high", c.RockDensity)
			}
		}},
		{5000, "autumn-rapids", types.SegmentNormal, types.BiomeAutumn, nil},
	}

	for _, tt := range tests {
		cfg := d.ConfigFor(tt.index)
		if got := d.RuleFor(tt.index); got != tt.rule {
			t.Errorf("RuleFor(%d) = %s, 期望 %s", tt.index, got, tt.rule)
		}
		if cfg.Type != tt.segType {
			t.Errorf("ConfigFor(%d).Type = %s, 期望 %s", tt.index, cfg.Type, tt.segType)
		}
		if cfg.Biome != tt.biome {
			t.Errorf("ConfigFor(%d).Biome = %s, 期望 %s", tt.index, cfg.Biome, tt.biome)
		}
		if tt.validate != nil {
			tt.validate(t, cfg)
		}
	}
}

// TestConfigForPure 测试同一索引多次查询结果一致，且不修改基础配置
func TestConfigForPure(t *testing.T) {
	d := DefaultLevelDirector()
	base := d.Base

	for i := 0; i < 3; i++ {
		if d.ConfigFor(14) != d.ConfigFor(14) {
			t.Fatal("ConfigFor(14) 多次调用结果不同")
		}
	}
	if d.Base != base {
		t.Error("ConfigFor 修改了基础配置")
	}
}

// TestConfigForFirstMatchWins 测试区间重叠时先匹配者生效
func TestConfigForFirstMatchWins(t *testing.T) {
	to := 10
	wide := 4.0
	narrow := 2.0
	d := &LevelDirector{
		Base: DefaultLevelDirector().Base,
		Rules: []DirectorRule{
			{Name: "first", From: 5, To: &to, Override: SegmentConfigOverride{Width: &wide}},
			{Name: "second", From: 0, Override: SegmentConfigOverride{Width: &narrow}},
		},
	}

	if got := d.ConfigFor(7).Width; got != wide {
		t.Errorf("ConfigFor(7).Width = %v, 期望 %v", got, wide)
	}
	if got := d.ConfigFor(3).Width; got != narrow {
		t.Errorf("ConfigFor(3).Width = %v, 期望 %v", got, narrow)
	}
	if got := d.ConfigFor(11).Width; got != narrow {
		t.Errorf("ConfigFor(11).Width = %v, 期望 %v", got, narrow)
	}

	empty := &LevelDirector{Base: DefaultLevelDirector().Base}
	if empty.ConfigFor(42) != empty.Base {
		t.Error("没有规则时应返回基础配置")
	}
	if empty.RuleFor(42) != "base" {
		t.Errorf("RuleFor = %s, 期望 base", empty.RuleFor(42))
	}
}

// TestDefaultDirectorMatchesYAML 测试内置节奏表与 data/track/director.yaml 一致
func TestDefaultDirectorMatchesYAML(t *testing.T) {
	d, err := LoadLevelDirector(filepath.Join("..", "..", "data", "track", "director.yaml"))
	if err != nil {
		t.Fatalf("加载 director.yaml 失败: %v", err)
	}

	want := DefaultLevelDirector()
	for index := 0; index < 40; index++ {
		if got, exp := d.ConfigFor(index), want.ConfigFor(index); got != exp {
			t.Errorf("索引 %d:\nyaml = %+v\n内置 = %+v", index, got, exp)
		}
		if d.RuleFor(index) != want.RuleFor(index) {
			t.Errorf("索引 %d 规则名称不同: %s != %s", index, d.RuleFor(index), want.RuleFor(index))
		}
	}
	if !reflect.DeepEqual(d.Base, want.Base) {
		t.Errorf("基础配置不同:\nyaml = %+v\n内置 = %+v", d.Base, want.Base)
	}
}

func TestLoadLevelDirector(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *LevelDirector)
	}{
		{
			name: "valid config",
			yamlContent: `
base:
  width: 30
  meanderStrength: 0.2
rules:
  - name: drop
    from: 3
    to: 3
    override:
      type: waterfall
      forwardMomentum: 0.1
  - name: late
    from: 4
    override:
      biome: autumn
`,
			validate: func(t *testing.T, d *LevelDirector) {
				if d.Base.Type != types.SegmentNormal {
					t.Errorf("expected default type normal, got %s", d.Base.Type)
				}
				if d.Base.SegmentLengthMultiplier != 1.0 {
					t.Errorf("expected default segmentLengthMultiplier 1.0, got %v", d.Base.SegmentLengthMultiplier)
				}
				if d.ConfigFor(3).Type != types.SegmentWaterfall {
					t.Errorf("expected index 3 waterfall, got %s", d.ConfigFor(3).Type)
				}
				if d.ConfigFor(3).Width != 30 {
					t.Errorf("expected width inherited from base, got %v", d.ConfigFor(3).Width)
				}
				if d.Rules[1].To != nil {
					t.Errorf("expected open-ended rule, got to=%d", *d.Rules[1].To)
				}
				if d.ConfigFor(1000).Biome != types.BiomeAutumn {
					t.Errorf("expected index 1000 autumn, got %s", d.ConfigFor(1000).Biome)
				}
			},
		},
		{
			name:        "zero width",
			yamlContent: "base:\n  width: 0\n",
			wantErr:     true,
			errContains: "width must be positive",
		},
		{
			name: "unknown segment type",
			yamlContent: `
base:
  width: 30
rules:
  - name: bad
    from: 0
    override:
      type: lava
`,
			wantErr:     true,
			errContains: "unknown segment type",
		},
		{
			name: "inverted range",
			yamlContent: `
base:
  width: 30
rules:
  - name: backwards
    from: 5
    to: 2
`,
			wantErr:     true,
			errContains: "must be >= from",
		},
		{
			name: "negative from",
			yamlContent: `
base:
  width: 30
rules:
  - name: neg
    from: -1
`,
			wantErr:     true,
			errContains: "from must be >= 0",
		},
		{
			name:        "invalid rock density",
			yamlContent: "base:\n  width: 30\n  rockDensity: medium\n",
			wantErr:     true,
			errContains: "rockDensity must be one of",
		},
		{
			name:        "malformed yaml",
			yamlContent: "base: [width",
			wantErr:     true,
			errContains: "failed to parse level director YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "director.yaml")
			if err := os.WriteFile(tmpFile, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to write temp file: %v", err)
			}

			d, err := LoadLevelDirector(tmpFile)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, d)
			}
		})
	}
}

func TestLoadLevelDirectorFileNotFound(t *testing.T) {
	_, err := LoadLevelDirector(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read level director file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStreamingConfigValidate(t *testing.T) {
	if err := DefaultStreamingConfig().Validate(); err != nil {
		t.Fatalf("default streaming config invalid: %v", err)
	}

	tests := []struct {
		name        string
		mutate      func(*StreamingConfig)
		errContains string
	}{
		{"zero threshold", func(c *StreamingConfig) { c.GenerationThreshold = 0 }, "generationThreshold"},
		{"window too small", func(c *StreamingConfig) { c.MaxActiveSegments = 1 }, "maxActiveSegments"},
		{"pool smaller than window", func(c *StreamingConfig) { c.PoolSize = 4 }, "poolSize"},
		{"no extension steps", func(c *StreamingConfig) { c.ExtensionSteps = 0 }, "extensionSteps"},
		{"zero placement step", func(c *StreamingConfig) { c.PlacementStepLength = 0 }, "placementStepLength"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultStreamingConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %v", tt.errContains, err)
			}
		})
	}
}
