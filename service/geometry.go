package service

import (
	"fmt"

	"github.com/stonefab/block-validation-service/rhino"
	"github.com/stonefab/block-validation-service/view"
	log "github.com/sirupsen/logrus"
)

// minValidVolume is the bounding box volume below which solid geometry is
// considered degenerate, in cubic model units.
const minValidVolume = 1e-6

const (
	geometryErrorNull       = "Geometry is null or missing"
	geometryErrorInvalid    = "Geometry is marked as invalid"
	geometryErrorDegenerate = "Bounding box is degenerate or invalid"
	geometryErrorZeroVolume = "Solid geometry has zero or near-zero volume (< %g cubic units)"
)

// GeometryValidator applies four ordered checks to every object of a model:
// null geometry, validity flag, degenerate bounding box and near-zero volume
// for solid kinds. Null geometry short-circuits the remaining checks for that
// object; the other checks are independent, so a single object can accumulate
// several findings. One object's failures never stop processing of the rest.
type GeometryValidator interface {
	ValidateGeometry(model rhino.Model) []view.ValidationErrorItem
}

func NewGeometryValidator() GeometryValidator {
	return &geometryValidatorImpl{}
}

type geometryValidatorImpl struct {
}

func (g geometryValidatorImpl) ValidateGeometry(model rhino.Model) []view.ValidationErrorItem {
	errors := make([]view.ValidationErrorItem, 0)
	if model == nil {
		log.Warn("Geometry validation called with nil model")
		return errors
	}

	objects := model.Objects()
	for _, obj := range objects {
		objectId := obj.Id().String()

		geometry := obj.Geometry()
		if geometry == nil {
			errors = append(errors, view.ValidationErrorItem{
				Category: view.CategoryGeometry,
				Target:   objectId,
				Message:  geometryErrorNull,
			})
			continue
		}

		if !geometry.IsValid() {
			errors = append(errors, view.ValidationErrorItem{
				Category: view.CategoryGeometry,
				Target:   objectId,
				Message:  geometryErrorInvalid,
			})
		}

		bbox := geometry.BoundingBox()
		if !bbox.Valid {
			errors = append(errors, view.ValidationErrorItem{
				Category: view.CategoryGeometry,
				Target:   objectId,
				Message:  geometryErrorDegenerate,
			})
		}

		if geometry.Kind().IsSolid() && bbox.Volume() < minValidVolume {
			errors = append(errors, view.ValidationErrorItem{
				Category: view.CategoryGeometry,
				Target:   objectId,
				Message:  fmt.Sprintf(geometryErrorZeroVolume, float64(minValidVolume)),
			})
		}
	}

	log.Debugf("Geometry validation: %d objects checked, %d errors", len(objects), len(errors))
	return errors
}
