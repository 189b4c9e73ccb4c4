package core

// Size describes the dimensions of a raster in cells.
type Size struct {
	W int
	H int
}

// Scene is the contract between a steppable, rasterised view of a model run
// and the viewer. Cells holds one palette index per cell in row-major order.
type Scene interface {
	Name() string
	Size() Size
	Reset()
	Step() bool
	Cells() []uint8
	TimeStep() int
}
