package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraControllerDefaults(t *testing.T) {
	cc := NewCameraController()
	x, y, z := cc.Position()
	assert.Equal(t, [3]float32{0, 0, 4}, [3]float32{x, y, z})
	x, y, z = cc.Target()
	assert.Equal(t, [3]float32{0, 0, 0}, [3]float32{x, y, z})
	assert.Equal(t, float32(4), cc.Radius())
}

func TestPanningShiftsPositionAndTarget(t *testing.T) {
	cc := NewCameraController(WithTarget(1, 2, -1), WithRadius(3))
	cc.SetOffset(0.5, -0.25)

	ox, oy := cc.Offset()
	assert.Equal(t, [2]float32{0.5, -0.25}, [2]float32{ox, oy})
	x, y, z := cc.Position()
	assert.Equal(t, [3]float32{1.5, 1.75, 2}, [3]float32{x, y, z})
	x, y, z = cc.Target()
	assert.Equal(t, [3]float32{1.5, 1.75, -1}, [3]float32{x, y, z})

	cc.SetOffset(0, 0)
	x, y, _ = cc.Position()
	assert.Equal(t, [2]float32{1, 2}, [2]float32{x, y}, "offsets are absolute, not accumulated")
}

func TestRadiusIsClamped(t *testing.T) {
	cc := NewCameraController(WithRadiusBounds(1, 5))

	cc.SetRadius(2)
	assert.Equal(t, float32(2), cc.Radius())
	cc.SetRadius(0.1)
	assert.Equal(t, float32(1), cc.Radius())
	cc.SetRadius(40)
	assert.Equal(t, float32(5), cc.Radius())
	cc.SetRadius(math32.NaN())
	assert.Equal(t, float32(1), cc.Radius())

	_, _, z := cc.Position()
	assert.Equal(t, float32(1), z)
}

func TestInitialRadiusRespectsBounds(t *testing.T) {
	cc := NewCameraController(WithRadius(100), WithRadiusBounds(4, 2))
	assert.Equal(t, float32(4), cc.Radius(), "swapped bounds are reordered")
}
