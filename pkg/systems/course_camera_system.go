package systems

import (
	"math"

	"github.com/gonewx/watershed/pkg/components"
	"github.com/gonewx/watershed/pkg/ecs"
	"github.com/gonewx/watershed/pkg/utils"
)

const (
	// DefaultCameraSpeed 默认行进速度（世界单位/秒，乘以 flowSpeed）
	DefaultCameraSpeed = 12.0
	// CameraHeight 镜头高于路径中心线的高度
	CameraHeight = 3.0

	// 抖动频率（弧度/秒），两个轴使用不相关的频率
	shakeFreqX = 23.0
	shakeFreqY = 31.0
)

// CourseCameraSystem 沿赛道行进的镜头。
// 以 BaseSpeed × flowSpeed 的速度沿活动段的样条前进，段切换时在
// transitionDuration 内把 flowSpeed 缓动到新段的值，并按 cameraShake 抖动。
// 它只是演示用的驱动器：流式系统只需要镜头位置。
type CourseCameraSystem struct {
	entityManager *ecs.EntityManager
	streaming     *TrackStreamingSystem
	cameraEntity  ecs.EntityID
}

// NewCourseCameraSystem 创建镜头系统，镜头位于最旧活动段的起点。
func NewCourseCameraSystem(em *ecs.EntityManager, streaming *TrackStreamingSystem, speed float64) *CourseCameraSystem {
	if speed <= 0 {
		speed = DefaultCameraSpeed
	}

	cs := &CourseCameraSystem{
		entityManager: em,
		streaming:     streaming,
	}

	first := streaming.State().Oldest()
	cs.cameraEntity = em.CreateEntity()
	cam := &components.CameraComponent{
		SegmentID:          first.ID,
		BaseSpeed:          speed,
		FlowFrom:           first.Config.FlowSpeed,
		FlowTo:             first.Config.FlowSpeed,
		TransitionDuration: first.Config.TransitionDuration,
		ShakeAmplitude:     first.Config.CameraShake,
		EasingType:         utils.EasingDefault,
	}
	cam.TransitionElapsed = cam.TransitionDuration
	ecs.AddComponent(em, cs.cameraEntity, cam)

	cs.updatePose(cam)
	return cs
}

// Entity 返回镜头实体
func (cs *CourseCameraSystem) Entity() ecs.EntityID {
	return cs.cameraEntity
}

// Camera 返回镜头组件
func (cs *CourseCameraSystem) Camera() *components.CameraComponent {
	cam, _ := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	return cam
}

// Position 返回镜头当前世界坐标
func (cs *CourseCameraSystem) Position() utils.Vec3 {
	if cam := cs.Camera(); cam != nil {
		return cam.Position
	}
	return utils.Vec3{}
}

// SetPaused 暂停/恢复行进
func (cs *CourseCameraSystem) SetPaused(paused bool) {
	if cam := cs.Camera(); cam != nil {
		cam.Paused = paused
	}
}

// SetSpeed 设置基础速度
func (cs *CourseCameraSystem) SetSpeed(speed float64) {
	if cam := cs.Camera(); cam != nil && speed > 0 {
		cam.BaseSpeed = speed
	}
}

// FlowSpeed 返回当前（缓动中的）水流速度倍率
func (cs *CourseCameraSystem) FlowSpeed() float64 {
	cam := cs.Camera()
	if cam == nil {
		return 0
	}
	return cs.currentFlow(cam)
}

// Update 推进镜头。
func (cs *CourseCameraSystem) Update(dt float64) {
	cam := cs.Camera()
	if cam == nil || cam.Paused || dt <= 0 {
		return
	}

	// 所在段已被淘汰时跳到最旧的活动段
	seg, ok := cs.streaming.Segment(cam.SegmentID)
	if !ok {
		oldest := cs.streaming.State().Oldest()
		if oldest == nil {
			return
		}
		seg = oldest
		cam.SegmentID = seg.ID
		cam.T = 0
		cs.beginTransition(cam, cs.currentFlow(cam), seg.Config.FlowSpeed, seg.Config.TransitionDuration, seg.Config.CameraShake)
	}

	cam.TransitionElapsed += dt
	cam.ShakeTime += dt

	distance := cam.BaseSpeed * cs.currentFlow(cam) * dt
	for distance > 0 {
		length := seg.Length()
		if length <= 0 {
			break
		}
		remaining := (1 - cam.T) * length
		if distance < remaining {
			cam.T += distance / length
			break
		}

		next, ok := cs.streaming.Segment(seg.ID + 1)
		if !ok {
			// 到达已生成赛道的末端，等待流式系统追加
			cam.T = 1
			break
		}
		distance -= remaining
		seg = next
		cam.SegmentID = next.ID
		cam.T = 0
		cs.beginTransition(cam, cs.currentFlow(cam), next.Config.FlowSpeed, next.Config.TransitionDuration, next.Config.CameraShake)
	}

	cs.updatePose(cam)
}

// beginTransition 从当前流速开始缓动到目标段的流速
func (cs *CourseCameraSystem) beginTransition(cam *components.CameraComponent, from, to, duration, shake float64) {
	cam.FlowFrom = from
	cam.FlowTo = to
	cam.TransitionDuration = duration
	cam.TransitionElapsed = 0
	cam.ShakeAmplitude = shake
}

// currentFlow 按缓动进度插值流速
func (cs *CourseCameraSystem) currentFlow(cam *components.CameraComponent) float64 {
	if cam.TransitionDuration <= 0 {
		return cam.FlowTo
	}
	progress := utils.Clamp(cam.TransitionElapsed/cam.TransitionDuration, 0, 1)
	return utils.Lerp(cam.FlowFrom, cam.FlowTo, utils.EasingByName(cam.EasingType)(progress))
}

// updatePose 由所在段和 T 计算位置和朝向
func (cs *CourseCameraSystem) updatePose(cam *components.CameraComponent) {
	seg, ok := cs.streaming.Segment(cam.SegmentID)
	if !ok || !seg.IsGenerated() {
		return
	}
	point, tangent, binormal := seg.Spline().Frame(cam.T)

	pos := point.Add(utils.WorldUp.Scale(CameraHeight))
	if cam.ShakeAmplitude > 0 {
		pos = pos.Add(binormal.Scale(math.Sin(cam.ShakeTime*shakeFreqX) * cam.ShakeAmplitude))
		pos = pos.Add(utils.WorldUp.Scale(math.Sin(cam.ShakeTime*shakeFreqY) * cam.ShakeAmplitude * 0.5))
	}
	cam.Position = pos
	cam.Direction = tangent
}
