package components

import (
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/math"
)

/**
 * @brief The keyboard state the camera reads from. core.InputState implements it.
 */
type KeyState interface {
	IsKeyDown(key core.KeyCode) bool
}

/**
 * @brief Movement rates of a camera, in units (or radians) per second.
 */
type CameraConfig struct {
	MoveSpeed float32
	TurnSpeed float32
}

func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		MoveSpeed: 8.0,
		TurnSpeed: 2.0,
	}
}

/**
 * @brief A first person camera: a position plus a yaw around the world y
 * axis. The look direction is derived from the yaw on every update.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec4
	/** @brief Rotation around the world y axis, in radians. */
	Yaw float32
	/** @brief Unit direction the camera looks at, (0, 0, 1) rotated by Yaw. */
	LookDir math.Vec4
	/** @brief The approximate up direction. */
	Up math.Vec4
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use View() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.NewVec4Zero()
	c.Yaw = 0
	c.LookDir = math.NewVec4Forward()
	c.Up = math.NewVec4Up()
	c.IsDirty = false
	c.ViewMatrix = math.NewMat4Identity()
}

func (c *Camera) GetPosition() math.Vec4 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec4) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetYaw(yaw float32) {
	c.Yaw = yaw
	c.LookDir = math.NewVec4Forward().Transform(math.NewMat4EulerY(yaw))
	c.IsDirty = true
}

/**
 * @brief Applies one frame of keyboard input. Arrow keys move along the
 * world axes, W and S move along the look direction of the previous frame,
 * A and D turn. The look direction is refreshed last.
 *
 * @param keys The current keyboard state.
 * @param deltaTime Seconds since the previous frame.
 * @param config Movement rates.
 */
func (c *Camera) Update(keys KeyState, deltaTime float64, config CameraConfig) {
	dt := float32(deltaTime)
	move := config.MoveSpeed * dt

	if keys.IsKeyDown(core.KEY_UP) {
		c.Position.Y -= move
	}
	if keys.IsKeyDown(core.KEY_DOWN) {
		c.Position.Y += move
	}
	if keys.IsKeyDown(core.KEY_LEFT) {
		c.Position.X -= move
	}
	if keys.IsKeyDown(core.KEY_RIGHT) {
		c.Position.X += move
	}

	forward := c.LookDir.MulScalar(move)
	if keys.IsKeyDown(core.KEY_W) {
		c.Position = c.Position.Add(forward)
	}
	if keys.IsKeyDown(core.KEY_S) {
		c.Position = c.Position.Sub(forward)
	}
	if keys.IsKeyDown(core.KEY_A) {
		c.Yaw -= config.TurnSpeed * dt
	}
	if keys.IsKeyDown(core.KEY_D) {
		c.Yaw += config.TurnSpeed * dt
	}

	c.SetYaw(c.Yaw)
}

/**
 * @brief The world-to-view matrix: the inverse of the camera placed at
 * Position and pointed at Position + LookDir.
 */
func (c *Camera) View() (math.Mat4, error) {
	if c.IsDirty {
		target := c.Position.Add(c.LookDir)
		camera, err := math.NewMat4PointAt(c.Position, target, c.Up)
		if err != nil {
			return math.Mat4{}, err
		}
		c.ViewMatrix = camera.QuickInverse()
		c.IsDirty = false
	}
	return c.ViewMatrix, nil
}
