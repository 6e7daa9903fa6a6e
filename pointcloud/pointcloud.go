// Package pointcloud provides a container for colored 3D points
// reconstructed from aligned color and depth frames, and a PCD writer for
// handing them to external viewers.
package pointcloud

import (
	"image/color"
	"math"

	"github.com/golang/geo/r3"
)

// MetaData tracks the bounding box and contents of a cloud.
type MetaData struct {
	HasColor bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData returns metadata for an empty cloud.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

func (meta *MetaData) merge(p r3.Vector, hasColor bool) {
	if hasColor {
		meta.HasColor = true
	}
	meta.MinX = math.Min(meta.MinX, p.X)
	meta.MinY = math.Min(meta.MinY, p.Y)
	meta.MinZ = math.Min(meta.MinZ, p.Z)
	meta.MaxX = math.Max(meta.MaxX, p.X)
	meta.MaxY = math.Max(meta.MaxY, p.Y)
	meta.MaxZ = math.Max(meta.MaxZ, p.Z)
}

type point struct {
	pos      r3.Vector
	c        color.NRGBA
	hasColor bool
}

// PointCloud is an insertion-ordered collection of points, deduplicated by
// position.
type PointCloud struct {
	points   []point
	indexMap map[r3.Vector]int
	meta     MetaData
}

// New returns an empty point cloud.
func New() *PointCloud {
	return NewWithPrealloc(0)
}

// NewWithPrealloc returns an empty point cloud with capacity for size points.
func NewWithPrealloc(size int) *PointCloud {
	return &PointCloud{
		points:   make([]point, 0, size),
		indexMap: make(map[r3.Vector]int, size),
		meta:     NewMetaData(),
	}
}

// Size returns the number of points in the cloud.
func (cloud *PointCloud) Size() int {
	return len(cloud.points)
}

// MetaData returns the cloud's metadata.
func (cloud *PointCloud) MetaData() MetaData {
	return cloud.meta
}

// Set places an uncolored point in the cloud.
func (cloud *PointCloud) Set(p r3.Vector) {
	cloud.set(point{pos: p})
}

// SetColored places a colored point in the cloud.
func (cloud *PointCloud) SetColored(p r3.Vector, c color.NRGBA) {
	cloud.set(point{pos: p, c: c, hasColor: true})
}

func (cloud *PointCloud) set(pt point) {
	if i, ok := cloud.indexMap[pt.pos]; ok {
		cloud.points[i] = pt
		return
	}
	cloud.indexMap[pt.pos] = len(cloud.points)
	cloud.points = append(cloud.points, pt)
	cloud.meta.merge(pt.pos, pt.hasColor)
}

// At returns the color at the given position and whether a point exists
// there.
func (cloud *PointCloud) At(x, y, z float64) (color.NRGBA, bool) {
	i, ok := cloud.indexMap[r3.Vector{X: x, Y: y, Z: z}]
	if !ok {
		return color.NRGBA{}, false
	}
	return cloud.points[i].c, true
}

// Iterate calls fn for every point in insertion order, stopping early if fn
// returns false.
func (cloud *PointCloud) Iterate(fn func(p r3.Vector, c color.NRGBA, hasColor bool) bool) {
	for _, pt := range cloud.points {
		if !fn(pt.pos, pt.c, pt.hasColor) {
			return
		}
	}
}
