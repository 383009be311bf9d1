package reveal

import "github.com/go-gl/mathgl/mgl64"

// Half-extents used to normalise a local hit point into a tilt.
const (
	tiltExtentX = 0.7
	tiltExtentY = 0.95
)

// ModelMatrix composes translate · rotate(XYZ) · scale for a pose.
func ModelMatrix(p Pose) mgl64.Mat4 {
	rot := mgl64.HomogRotate3DX(p.Rotation.X()).
		Mul4(mgl64.HomogRotate3DY(p.Rotation.Y())).
		Mul4(mgl64.HomogRotate3DZ(p.Rotation.Z()))
	s := p.Scale
	if s == 0 {
		s = 1
	}
	return mgl64.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).
		Mul4(rot).
		Mul4(mgl64.Scale3D(s, s, s))
}

// WorldToLocal projects a world-space point into the frame of an element
// posed at p.
func WorldToLocal(p Pose, world mgl64.Vec3) mgl64.Vec3 {
	inv := ModelMatrix(p).Inv()
	return inv.Mul4x1(world.Vec4(1)).Vec3()
}

// DragTilt converts a world-space pointer hit on an element into a tilt in
// [-1,1]².
func DragTilt(p Pose, world mgl64.Vec3) mgl64.Vec2 {
	local := WorldToLocal(p, world)
	return mgl64.Vec2{
		mgl64.Clamp(local.X()/tiltExtentX, -1, 1),
		mgl64.Clamp(local.Y()/tiltExtentY, -1, 1),
	}
}
