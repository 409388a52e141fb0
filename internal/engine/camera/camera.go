// Package camera provides the free/orbit camera that feeds view matrices and
// visibility queries to the renderer.
package camera

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/lidshade/internal/logger"
	"github.com/Faultbox/lidshade/pkg/frustum"
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

// Movement is a discrete move or pan request.
type Movement int

const (
	MoveLeft Movement = iota
	MoveRight
	MoveBack
	MoveForward
	Stop
	ScrollLeft
	ScrollRight
	ScrollUp
	ScrollDown
)

// Mode selects free flight or orbiting a target.
type Mode int

const (
	FreeCamera Mode = iota
	OrbitCamera
)

func (m Mode) String() string {
	if m == OrbitCamera {
		return "orbit"
	}
	return "free"
}

// Handedness selects the view-space convention. Left-handed views look down
// +Z, right-handed views look down -Z.
type Handedness int

const (
	LeftHanded Handedness = iota
	RightHanded
)

func (h Handedness) String() string {
	if h == RightHanded {
		return "right"
	}
	return "left"
}

// ParseMode reads "free" or "orbit". Empty means free.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "free", "":
		return FreeCamera, nil
	case "orbit":
		return OrbitCamera, nil
	}
	return FreeCamera, fmt.Errorf("unknown camera mode %q", s)
}

// ParseHandedness reads "left" or "right". Empty means left.
func ParseHandedness(s string) (Handedness, error) {
	switch s {
	case "left", "":
		return LeftHanded, nil
	case "right":
		return RightHanded, nil
	}
	return LeftHanded, fmt.Errorf("unknown handedness %q", s)
}

// Sign is the factor applied to the direction row of the view matrix.
func (h Handedness) Sign() float32 {
	if h == RightHanded {
		return -1
	}
	return 1
}

// Speed limits accepted by SetSpeed.
const (
	MinSpeed = 0.01
	MaxSpeed = 103
)

// moveScale converts Speed * speed into world units per Move call.
const moveScale = 1000.0 / 100.0

// Bounds is anything with an axis-aligned extent.
type Bounds interface {
	MinPoint() math.Vec3
	MaxPoint() math.Vec3
}

// Camera keeps an orthonormal Right/Up/Direction basis and a position, and
// derives view, projection and frustum from them.
// It is not safe for concurrent use.
type Camera struct {
	speed      float32
	aspect     float32
	zNear      float32
	zFar       float32
	fov        float32 // degrees
	halfTanFov float32
	height     float32

	position math.Vec3
	oldPos   math.Vec3
	up       math.Vec3
	dir      math.Vec3
	right    math.Vec3

	view    math.Mat4
	proj    math.Mat4
	frustum frustum.Frustum

	rotator    Rotator
	orbit      *OrbitExtension
	mode       Mode
	handedness Handedness
	fly        bool
	locked     bool
	changes    ChangeFlags

	log *zap.Logger
}

// New returns a free, left-handed camera with quaternion rotation.
func New() *Camera {
	c := &Camera{
		speed:    8,
		aspect:   1,
		zNear:    0.16,
		zFar:     2000,
		height:   3.5,
		position: math.Vec3{X: 20, Y: -0.7, Z: -10},
		view:     math.Identity(),
		proj:     math.Identity(),
		rotator:  QuaternionRotation{},
		changes:  ChangeAll,
		log:      logger.Named("camera"),
	}
	c.resetBasis()
	c.SetFov(45)
	return c
}

func (c *Camera) resetBasis() {
	c.up = math.UnitY()
	c.right = math.UnitX()
	c.dir = math.UnitZ()
}

// Speed returns the movement speed factor.
func (c *Camera) Speed() float32 { return c.speed }

// SetSpeed accepts values in [MinSpeed, MaxSpeed].
func (c *Camera) SetSpeed(speed float32) bool {
	if speed < MinSpeed || speed > MaxSpeed {
		c.log.Debug("speed rejected", zap.Float32("speed", speed))
		return false
	}
	c.speed = speed
	return true
}

// Height returns the offset SetPosition adds to Y.
func (c *Camera) Height() float32 { return c.height }

// SetCameraHeight accepts positive heights.
func (c *Camera) SetCameraHeight(height float32) bool {
	if height <= 0 {
		c.log.Debug("camera height rejected", zap.Float32("height", height))
		return false
	}
	c.height = height
	return true
}

// Aspect returns width / height.
func (c *Camera) Aspect() float32 { return c.aspect }

// SetAspect accepts positive aspect ratios.
func (c *Camera) SetAspect(aspect float32) bool {
	if aspect <= 0 {
		c.log.Debug("aspect rejected", zap.Float32("aspect", aspect))
		return false
	}
	c.aspect = aspect
	c.changes |= ChangeProjection
	return true
}

// Fov returns the vertical field of view in degrees.
func (c *Camera) Fov() float32 { return c.fov }

// HalfTanFov returns tan(fov/2).
func (c *Camera) HalfTanFov() float32 { return c.halfTanFov }

// SetFov accepts a vertical field of view in degrees within (0, 180).
func (c *Camera) SetFov(fov float32) bool {
	if fov <= 0 || fov >= 180 {
		c.log.Debug("fov rejected", zap.Float32("fov", fov))
		return false
	}
	c.fov = fov
	c.halfTanFov = math32.Tan(math.DegToRad(fov) / 2)
	c.changes |= ChangeProjection
	return true
}

// ZNear returns the near clip distance.
func (c *Camera) ZNear() float32 { return c.zNear }

// ZFar returns the far clip distance.
func (c *Camera) ZFar() float32 { return c.zFar }

// SetZNear accepts positive values below the far distance.
func (c *Camera) SetZNear(zNear float32) bool {
	if zNear <= 0 || zNear >= c.zFar {
		c.log.Debug("near plane rejected", zap.Float32("z_near", zNear), zap.Float32("z_far", c.zFar))
		return false
	}
	c.zNear = zNear
	c.changes |= ChangeProjection
	return true
}

// SetZFar accepts values beyond the near distance.
func (c *Camera) SetZFar(zFar float32) bool {
	if zFar <= c.zNear {
		c.log.Debug("far plane rejected", zap.Float32("z_near", c.zNear), zap.Float32("z_far", zFar))
		return false
	}
	c.zFar = zFar
	c.changes |= ChangeProjection
	return true
}

// CameraParams packs (zNear, zFar, fov) for shader constants.
func (c *Camera) CameraParams() math.Vec3 {
	return math.Vec3{X: c.zNear, Y: c.zFar, Z: c.fov}
}

// Position returns the eye position.
func (c *Camera) Position() math.Vec3 { return c.position }

// OldPosition returns the position before the last move or set.
func (c *Camera) OldPosition() math.Vec3 { return c.oldPos }

// Up returns the up basis vector.
func (c *Camera) Up() math.Vec3 { return c.up }

// Right returns the right basis vector.
func (c *Camera) Right() math.Vec3 { return c.right }

// Direction returns the view direction.
func (c *Camera) Direction() math.Vec3 { return c.dir }

// SetPosition places the eye at (x, Height+y, z).
func (c *Camera) SetPosition(x, y, z float32) {
	c.oldPos = c.position
	c.position = math.Vec3{X: x, Y: c.height + y, Z: z}
	c.changes |= ChangePosition
}

// SetPositionX sets one raw coordinate.
func (c *Camera) SetPositionX(x float32) {
	c.oldPos.X = c.position.X
	c.position.X = x
	c.changes |= ChangePosition
}

// SetPositionY sets one raw coordinate. Height is not added.
func (c *Camera) SetPositionY(y float32) {
	c.oldPos.Y = c.position.Y
	c.position.Y = y
	c.changes |= ChangePosition
}

// SetPositionZ sets one raw coordinate.
func (c *Camera) SetPositionZ(z float32) {
	c.oldPos.Z = c.position.Z
	c.position.Z = z
	c.changes |= ChangePosition
}

// SetDirection replaces the view direction. Up and Right are rebuilt from it
// on the next Update.
func (c *Camera) SetDirection(dir math.Vec3) {
	c.dir = dir
	c.changes |= ChangeOrientation
}

// SetUp replaces the up vector.
func (c *Camera) SetUp(up math.Vec3) {
	c.up = up
	c.changes |= ChangeOrientation
}

// SetRight replaces the right vector.
func (c *Camera) SetRight(right math.Vec3) {
	c.right = right
	c.changes |= ChangeOrientation
}

// ClearRotate resets the basis to the world axes and drops the view rotation.
func (c *Camera) ClearRotate() {
	c.view = c.view.ClearRotation()
	c.resetBasis()
	c.changes |= ChangeOrientation
}

// EnableFly lets forward and backward moves change altitude.
func (c *Camera) EnableFly(on bool) { c.fly = on }

// Fly reports whether fly mode is on.
func (c *Camera) Fly() bool { return c.fly }

// SetRotator selects the rotation strategy. nil restores the default.
func (c *Camera) SetRotator(r Rotator) {
	if r == nil {
		r = QuaternionRotation{}
	}
	c.rotator = r
}

// Handedness returns the view-space convention.
func (c *Camera) Handedness() Handedness { return c.handedness }

// SetHandedness switches the view-space convention.
func (c *Camera) SetHandedness(h Handedness) {
	if h == c.handedness {
		return
	}
	c.handedness = h
	c.changes |= ChangeOrientation | ChangeProjection
}

// Move translates the camera. Left/right follow Right, back/forward follow
// Direction and the scroll moves pan along Right and Up. Without fly mode,
// left/right/back/forward keep the current altitude.
func (c *Camera) Move(m Movement, speed float32) {
	d := c.speed * speed * moveScale
	c.oldPos = c.position

	var delta math.Vec3
	switch m {
	case MoveLeft:
		delta = c.right.Scale(-d)
	case MoveRight:
		delta = c.right.Scale(d)
	case MoveBack:
		delta = c.dir.Scale(-d)
	case MoveForward:
		delta = c.dir.Scale(d)
	case ScrollLeft:
		c.pan(c.right.Scale(-d))
		return
	case ScrollRight:
		c.pan(c.right.Scale(d))
		return
	case ScrollUp:
		c.pan(c.up.Scale(d))
		return
	case ScrollDown:
		c.pan(c.up.Scale(-d))
		return
	default:
		return
	}
	if !c.fly {
		delta.Y = 0
	}
	c.position = c.position.Add(delta)
	c.changes |= ChangePosition | ChangeOrbitDistance
}

// pan moves the eye and, when orbiting, the target with it.
func (c *Camera) pan(delta math.Vec3) {
	c.position = c.position.Add(delta)
	if c.mode == OrbitCamera && c.orbit != nil {
		c.orbit.Target = c.orbit.Target.Add(delta)
	}
	c.changes |= ChangePosition
}

// Rotate applies a pitch of delta.Y degrees around Right and a yaw of
// delta.X degrees around world Y. A pitch that would tip Up below the
// horizon is dropped. In orbit mode with checkAngle the delta is clamped to
// the orbit limits first and the clamped pitch is always applied.
func (c *Camera) Rotate(delta math.Vec2, checkAngle bool) {
	orbiting := c.mode == OrbitCamera && c.orbit != nil
	limited := orbiting && checkAngle
	if limited {
		delta, _ = c.orbit.CheckOrbitalLimitRotation(delta)
	}

	if delta.Y != 0 {
		up := c.rotator.Rotate(c.up, c.right, delta.Y)
		if limited || up.Y >= 0 {
			c.up = up
			c.dir = c.rotator.Rotate(c.dir, c.right, delta.Y)
		} else {
			delta.Y = 0
		}
	}
	if delta.X != 0 {
		axis := math.UnitY()
		c.dir = c.rotator.Rotate(c.dir, axis, delta.X)
		c.right = c.rotator.Rotate(c.right, axis, delta.X)
	}
	if orbiting && !limited {
		c.orbit.accumulate(delta)
	}
	if !delta.IsZero() {
		c.changes |= ChangeOrientation
	}
}

// Mode returns free or orbit.
func (c *Camera) Mode() Mode { return c.mode }

// SetCameraType switches between free and orbit mode. Orbit mode without an
// extension gets one targeting the point Height units ahead.
func (c *Camera) SetCameraType(m Mode) {
	if m == c.mode {
		return
	}
	if m == OrbitCamera && c.orbit == nil {
		c.orbit = NewOrbitExtension(c.position.Add(c.dir.Normalize().Scale(c.height)))
	}
	c.mode = m
	c.changes |= ChangeOrientation | ChangePosition | ChangeOrbitDistance
	c.log.Info("camera mode changed", zap.Stringer("mode", m))
}

// Orbit returns the orbit state, or nil when none was attached.
func (c *Camera) Orbit() *OrbitExtension { return c.orbit }

// SetOrbit attaches orbit state. It takes effect in orbit mode.
func (c *Camera) SetOrbit(o *OrbitExtension) {
	c.orbit = o
	c.changes |= ChangeOrbitDistance | ChangePosition
}

// SetTarget moves the orbit target and remeasures the distance to it.
func (c *Camera) SetTarget(target math.Vec3) {
	if c.orbit == nil {
		c.orbit = NewOrbitExtension(target)
	}
	c.orbit.Target = target
	c.changes |= ChangePosition | ChangeOrbitDistance
}

// SetOrbitLimitAngles sets the yaw (X) and pitch (Y) limits in degrees.
func (c *Camera) SetOrbitLimitAngles(limits math.Vec2) {
	if c.orbit == nil {
		c.orbit = NewOrbitExtension(c.position.Add(c.dir.Scale(c.height)))
	}
	c.orbit.Limits = limits
}

// SetOrbitDistance places the eye distance units from the target.
func (c *Camera) SetOrbitDistance(distance float32) {
	if c.orbit == nil || distance <= 0 {
		return
	}
	c.orbit.distance = distance
	c.changes &^= ChangeOrbitDistance
	c.changes |= ChangePosition
}

// FitToBounds targets the center of b at a distance that keeps its
// bounding sphere inside the vertical field of view.
func (c *Camera) FitToBounds(b geom.BoundingBox) {
	if b.IsEmpty() {
		return
	}
	c.SetTarget(b.Center())
	c.SetOrbitDistance(fitDistance(b.Radius(), c.fov))
}

// Lock freezes Update until Unlock.
func (c *Camera) Lock() { c.locked = true }

// Unlock re-enables Update.
func (c *Camera) Unlock() { c.locked = false }

// Locked reports whether Update is frozen.
func (c *Camera) Locked() bool { return c.locked }

// Changes returns the pending change flags without clearing them.
func (c *Camera) Changes() ChangeFlags { return c.changes }

// ConsumeChanges returns the pending change flags and clears them.
func (c *Camera) ConsumeChanges() ChangeFlags {
	f := c.changes
	c.changes = 0
	return f
}

// ClearChangeCamera drops the pending change flags.
func (c *Camera) ClearChangeCamera() { c.changes = 0 }

// Update rebuilds the basis, view and projection when something changed and
// the camera is not locked. It reports whether anything was recomputed.
// Flags stay set until ConsumeChanges or ClearChangeCamera.
func (c *Camera) Update() bool {
	return c.UpdateWithSign(c.handedness.Sign())
}

// UpdateWithSign is Update with an explicit direction-row sign.
func (c *Camera) UpdateWithSign(sign float32) bool {
	if c.locked || c.changes == 0 {
		return false
	}
	if c.changes.Has(ChangeOrientation | ChangePosition | ChangeOrbitDistance) {
		c.orthonormalize()
		c.updateViewMatrix(sign)
	}
	if c.changes.Has(ChangeProjection) {
		c.proj = c.buildProjection()
	}
	return true
}

// orthonormalize treats Direction as authoritative and rebuilds Up and Right.
func (c *Camera) orthonormalize() {
	c.dir = c.dir.Normalize()
	up := c.dir.Cross(c.right)
	if up.LengthSq() == 0 {
		// Right is parallel to Direction; rebuild it from world up.
		c.right = math.UnitY().Cross(c.dir).Normalize()
		if c.right.LengthSq() == 0 {
			c.right = math.UnitX()
		}
		up = c.dir.Cross(c.right)
	}
	c.up = up.Normalize()
	c.right = c.up.Cross(c.dir)
}

func (c *Camera) updateViewMatrix(sign float32) {
	if c.mode == OrbitCamera && c.orbit != nil {
		if c.orbit.distance == 0 || c.changes.Has(ChangeOrbitDistance) {
			c.orbit.distance = c.position.Distance(c.orbit.Target)
		}
		c.position = c.orbit.Target.Sub(c.dir.Scale(c.orbit.distance))
	}
	c.view = basisView(c.right, c.up, c.dir, c.position, sign)
}

// basisView builds a view matrix whose rows are Right, Up and sign*Direction.
func basisView(right, up, dir, pos math.Vec3, sign float32) math.Mat4 {
	return math.Mat4{
		right.X, up.X, sign * dir.X, 0,
		right.Y, up.Y, sign * dir.Y, 0,
		right.Z, up.Z, sign * dir.Z, 0,
		-right.Dot(pos), -up.Dot(pos), -sign * dir.Dot(pos), 1,
	}
}

func (c *Camera) buildProjection() math.Mat4 {
	fovY := math.DegToRad(c.fov)
	if c.handedness == RightHanded {
		return math.Perspective(fovY, c.aspect, c.zNear, c.zFar)
	}
	return math.PerspectiveLH(fovY, c.aspect, c.zNear, c.zFar)
}

// ViewMatrix returns the last built view matrix.
func (c *Camera) ViewMatrix() math.Mat4 { return c.view }

// SetViewMatrix overrides the view matrix until the next recompute.
func (c *Camera) SetViewMatrix(m math.Mat4) { c.view = m }

// ProjectionMatrix returns the current projection.
func (c *Camera) ProjectionMatrix() math.Mat4 { return c.proj }

// SetProjectionMatrix overrides the projection until fov, aspect or a clip
// distance changes again.
func (c *Camera) SetProjectionMatrix(m math.Mat4) {
	c.proj = m
	c.changes &^= ChangeProjection
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.proj.Mul(c.view)
}

// Frustum returns the camera's frustum as of the last extraction.
func (c *Camera) Frustum() *frustum.Frustum { return &c.frustum }

// ExtractFrustum rebuilds the frustum from projection * view.
func (c *Camera) ExtractFrustum() {
	c.frustum.ExtractFromProjView(c.proj, c.view)
}

// CalculateNearFarPlanes refreshes only the near and far frustum planes.
func (c *Camera) CalculateNearFarPlanes() {
	c.frustum.CalculateNearFarPlanes(c.proj, c.view)
}

// Reflect mirrors the eye and basis across p, builds the mirrored view and
// clears the change flags. The basis is not re-orthonormalized, so the
// mirrored view keeps its flipped handedness.
func (c *Camera) Reflect(p geom.Plane, calcFrustum bool) {
	c.position = p.ReflectPos(c.position)
	c.dir = p.ReflectDir(c.dir)
	c.up = p.ReflectDir(c.up)
	c.right = p.ReflectDir(c.right)
	c.view = basisView(c.right, c.up, c.dir, c.position, c.handedness.Sign())
	c.changes = 0
	if calcFrustum {
		c.ExtractFrustum()
	}
}

// IsVisibleBox reports whether the box may be visible.
func (c *Camera) IsVisibleBox(min, max math.Vec3) bool {
	return c.frustum.BoundingBoxInFrustum(min, max)
}

// IsVisibleBoxIntersect also reports whether the box crosses a frustum plane.
func (c *Camera) IsVisibleBoxIntersect(min, max math.Vec3) (visible, intersect bool) {
	return c.frustum.BoundingBoxInFrustumIntersect(min, max)
}

// IsVisible tests anything with box bounds.
func (c *Camera) IsVisible(b Bounds) bool {
	return c.frustum.BoundingBoxInFrustum(b.MinPoint(), b.MaxPoint())
}

// IsVisibleSphere tests a bounding sphere.
func (c *Camera) IsVisibleSphere(s geom.BoundingSphere) bool {
	return c.frustum.SphereInFrustum(s.Center, s.Radius)
}
