package config

import "github.com/gonewx/watershed/pkg/types"

// DefaultLevelDirector 返回内置的关卡节奏表
// 与 data/track/director.yaml 内容一致（由 TestDefaultDirectorMatchesYAML 保证）
//
//	0-12  蜿蜒段
//	13    瀑布前加速
//	14    瀑布
//	15    落水区 / 群系过渡
//	16-18 湖面
//	19+   秋季急流
func DefaultLevelDirector() *LevelDirector {
	return &LevelDirector{
		Base: SegmentConfig{
			Type:                    types.SegmentNormal,
			Biome:                   types.BiomeSummer,
			Width:                   35,
			MeanderStrength:         0.35,
			VerticalBias:            -0.15,
			SegmentLengthMultiplier: 1.0,
			FlowSpeed:               1.0,
			ParticleCount:           0,
			TreeDensity:             1.0,
			RockDensity:             types.RockDensityLow,
			FogDensity:              0.015,
			CameraShake:             0,
			ForwardMomentum:         1.0,
			TransitionDuration:      1.5,
		},
		Rules: []DirectorRule{
			{
				Name: "meander",
				From: 0,
				To:   intPtr(12),
				Override: SegmentConfigOverride{
					MeanderStrength: float64Ptr(0.45),
					VerticalBias:    float64Ptr(-0.12),
				},
			},
			{
				Name: "approach",
				From: 13,
				To:   intPtr(13),
				Override: SegmentConfigOverride{
					Type:                    segmentTypePtr(types.SegmentApproach),
					MeanderStrength:         float64Ptr(0.1),
					VerticalBias:            float64Ptr(-0.3),
					SegmentLengthMultiplier: float64Ptr(0.8),
					FlowSpeed:               float64Ptr(1.6),
					CameraShake:             float64Ptr(0.1),
					ForwardMomentum:         float64Ptr(1.3),
				},
			},
			{
				Name: "waterfall",
				From: 14,
				To:   intPtr(14),
				Override: SegmentConfigOverride{
					Type:                    segmentTypePtr(types.SegmentWaterfall),
					MeanderStrength:         float64Ptr(0.0),
					VerticalBias:            float64Ptr(-1.0),
					SegmentLengthMultiplier: float64Ptr(1.2),
					FlowSpeed:               float64Ptr(2.5),
					ParticleCount:           intPtr(400),
					FogDensity:              float64Ptr(0.03),
					CameraShake:             float64Ptr(0.35),
					ForwardMomentum:         float64Ptr(0.15),
				},
			},
			{
				Name: "splash",
				From: 15,
				To:   intPtr(15),
				Override: SegmentConfigOverride{
					Type:               segmentTypePtr(types.SegmentSplash),
					Biome:              biomePtr(types.BiomeAutumn),
					Width:              float64Ptr(40),
					MeanderStrength:    float64Ptr(0.15),
					VerticalBias:       float64Ptr(-0.05),
					FlowSpeed:          float64Ptr(1.2),
					ParticleCount:      intPtr(150),
					FogDensity:         float64Ptr(0.04),
					CameraShake:        float64Ptr(0.15),
					TransitionDuration: float64Ptr(3.0),
				},
			},
			{
				Name: "pond",
				From: 16,
				To:   intPtr(18),
				Override: SegmentConfigOverride{
					Type:                    segmentTypePtr(types.SegmentPond),
					Biome:                   biomePtr(types.BiomeAutumn),
					Width:                   float64Ptr(60),
					MeanderStrength:         float64Ptr(0.2),
					VerticalBias:            float64Ptr(0.0),
					SegmentLengthMultiplier: float64Ptr(1.4),
					FlowSpeed:               float64Ptr(0.4),
					TreeDensity:             float64Ptr(1.3),
					ForwardMomentum:         float64Ptr(0.6),
				},
			},
			{
				Name: "autumn-rapids",
				From: 19,
				Override: SegmentConfigOverride{
					Biome:           biomePtr(types.BiomeAutumn),
					MeanderStrength: float64Ptr(0.55),
					VerticalBias:    float64Ptr(-0.2),
					FlowSpeed:       float64Ptr(1.5),
					TreeDensity:     float64Ptr(1.2),
					RockDensity:     rockDensityPtr(types.RockDensityHigh),
					CameraShake:     float64Ptr(0.08),
					ForwardMomentum: float64Ptr(1.2),
				},
			},
		},
	}
}

func intPtr(v int) *int { return &v }
func float64Ptr(v float64) *float64 { return &v }
func segmentTypePtr(v types.SegmentType) *types.SegmentType { return &v }
func biomePtr(v types.Biome) *types.Biome { return &v }
func rockDensityPtr(v types.RockDensity) *types.RockDensity { return &v }
