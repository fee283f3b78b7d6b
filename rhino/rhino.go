// Package rhino defines the boundary to an openNURBS-compatible .3dm reader.
//
// Everything behind these interfaces is treated as potentially absent or
// failing: optional native properties are exposed as explicit capability
// methods with an ok flag, and per-key string lookups may return errors.
// Consumers must degrade gracefully instead of assuming a complete file.
package rhino

import (
	"errors"

	"github.com/google/uuid"
)

// ErrLibraryUnavailable is returned by OpenLibrary when no .3dm reader
// binding is linked into the binary.
var ErrLibraryUnavailable = errors.New("3dm reader library is not available")

// Library reads .3dm files from disk.
type Library interface {
	Read(path string) (Model, error)
}

// OpenLibrary returns the process-wide .3dm reader. The openNURBS binding is
// linked in via a separate build file in deployments that ship it; without it
// the parser fails closed with a "library not installed" processing result.
func OpenLibrary() (Library, error) {
	return nil, ErrLibraryUnavailable
}

// Model is one parsed .3dm file.
//
// Units, Tolerance, ApplicationName and ApplicationVersion are independently
// optional: ok=false means the file (or the reader version) does not expose
// that property, which is not an error.
type Model interface {
	Layers() []Layer
	Objects() []Object
	Units() (string, bool)
	Tolerance() (float64, bool)
	ApplicationName() (string, bool)
	ApplicationVersion() (string, bool)
	// Strings is the document-level user string table.
	Strings() (StringTable, bool)
}

type Layer interface {
	Name() string
	IsVisible() bool
	Color() (Color, bool)
	UserStrings() (StringTable, bool)
}

type Object interface {
	Id() uuid.UUID
	// LayerIndex is the enumeration index of the layer this object belongs to.
	LayerIndex() int
	// Geometry returns nil when the object carries no geometry payload.
	Geometry() Geometry
	UserStrings() (StringTable, bool)
}

type Geometry interface {
	IsValid() bool
	BoundingBox() BoundingBox
	Kind() GeometryKind
}

type GeometryKind int

const (
	KindUnknown GeometryKind = iota
	KindPoint
	KindCurve
	KindSurface
	KindBrep
	KindMesh
	KindExtrusion
)

// IsSolid reports whether volume is a meaningful property for this kind.
func (k GeometryKind) IsSolid() bool {
	return k == KindBrep || k == KindMesh
}

type Point3d struct {
	X, Y, Z float64
}

type BoundingBox struct {
	Min   Point3d
	Max   Point3d
	Valid bool
}

// Volume is the product of the three axis extents. Only meaningful for solid
// geometry kinds; callers check Valid first.
func (b BoundingBox) Volume() float64 {
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y) * (b.Max.Z - b.Min.Z)
}

// StringTable is a string-keyed annotation accessor. Get may fail for a key
// previously returned by Keys if the underlying table is inconsistent; such
// keys are skipped by extraction.
type StringTable interface {
	Keys() []string
	Get(key string) (string, error)
}
