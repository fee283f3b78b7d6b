package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stonefab/block-validation-service/rhino"
)

// Hand-rolled fakes for the rhino boundary, mirroring how the pipeline is
// exercised without a native .3dm reader.

type fakeLibrary struct {
	model   rhino.Model
	readErr error
}

func (f *fakeLibrary) Read(path string) (rhino.Model, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.model, nil
}

type fakeModel struct {
	layers  []rhino.Layer
	objects []rhino.Object

	units      *string
	tolerance  *float64
	appName    *string
	appVersion *string
	strings    rhino.StringTable
}

func (f *fakeModel) Layers() []rhino.Layer { return f.layers }

func (f *fakeModel) Objects() []rhino.Object { return f.objects }

func (f *fakeModel) Units() (string, bool) {
	if f.units == nil {
		return "", false
	}
	return *f.units, true
}

func (f *fakeModel) Tolerance() (float64, bool) {
	if f.tolerance == nil {
		return 0, false
	}
	return *f.tolerance, true
}

func (f *fakeModel) ApplicationName() (string, bool) {
	if f.appName == nil {
		return "", false
	}
	return *f.appName, true
}

func (f *fakeModel) ApplicationVersion() (string, bool) {
	if f.appVersion == nil {
		return "", false
	}
	return *f.appVersion, true
}

func (f *fakeModel) Strings() (rhino.StringTable, bool) {
	if f.strings == nil {
		return nil, false
	}
	return f.strings, true
}

type fakeLayer struct {
	name        string
	visible     bool
	color       *rhino.Color
	userStrings rhino.StringTable
	// panicOnUserStrings simulates a reader fault on one specific layer
	panicOnUserStrings bool
}

func (f *fakeLayer) Name() string { return f.name }

func (f *fakeLayer) IsVisible() bool { return f.visible }

func (f *fakeLayer) Color() (rhino.Color, bool) {
	if f.color == nil {
		return rhino.Color{}, false
	}
	return *f.color, true
}

func (f *fakeLayer) UserStrings() (rhino.StringTable, bool) {
	if f.panicOnUserStrings {
		panic("reader fault on layer " + f.name)
	}
	if f.userStrings == nil {
		return nil, false
	}
	return f.userStrings, true
}

type fakeObject struct {
	id          uuid.UUID
	layerIndex  int
	geometry    rhino.Geometry
	userStrings rhino.StringTable
}

func (f *fakeObject) Id() uuid.UUID { return f.id }

func (f *fakeObject) LayerIndex() int { return f.layerIndex }

func (f *fakeObject) Geometry() rhino.Geometry { return f.geometry }

func (f *fakeObject) UserStrings() (rhino.StringTable, bool) {
	if f.userStrings == nil {
		return nil, false
	}
	return f.userStrings, true
}

type fakeGeometry struct {
	valid bool
	bbox  rhino.BoundingBox
	kind  rhino.GeometryKind
}

func (f *fakeGeometry) IsValid() bool { return f.valid }

func (f *fakeGeometry) BoundingBox() rhino.BoundingBox { return f.bbox }

func (f *fakeGeometry) Kind() rhino.GeometryKind { return f.kind }

type fakeStringTable struct {
	values map[string]string
	// badKeys are enumerated but fail on read
	badKeys []string
}

func (f *fakeStringTable) Keys() []string {
	keys := make([]string, 0, len(f.values)+len(f.badKeys))
	for k := range f.values {
		keys = append(keys, k)
	}
	keys = append(keys, f.badKeys...)
	return keys
}

func (f *fakeStringTable) Get(key string) (string, error) {
	for _, bad := range f.badKeys {
		if key == bad {
			return "", fmt.Errorf("key %s vanished", key)
		}
	}
	v, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("key %s not found", key)
	}
	return v, nil
}

func validBBox(x, y, z float64) rhino.BoundingBox {
	return rhino.BoundingBox{
		Min:   rhino.Point3d{X: 0, Y: 0, Z: 0},
		Max:   rhino.Point3d{X: x, Y: y, Z: z},
		Valid: true,
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
