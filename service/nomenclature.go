package service

import (
	"fmt"
	"regexp"

	"github.com/stonefab/block-validation-service/view"
	log "github.com/sirupsen/logrus"
)

// Layer naming grammar: [PREFIX]-[ZONE]-[TYPE]-[ID], anchored, case
// sensitive. Examples: SF-NAV-CO-001, SFC-NAV1-A-999.
const layerNamePattern = `^[A-Z]{2,3}-[A-Z0-9]{3,4}-[A-Z]{1,2}-[0-9]{3}$`
const layerPatternDescription = "[PREFIX]-[ZONE]-[TYPE]-[ID] (e.g., SF-NAV-CO-001)"

// NomenclatureValidator checks every layer name against the naming grammar
// and reports one finding per non-conforming layer.
type NomenclatureValidator interface {
	ValidateNomenclature(layers []view.LayerInfo) []view.ValidationErrorItem
}

func NewNomenclatureValidator() NomenclatureValidator {
	return &nomenclatureValidatorImpl{pattern: regexp.MustCompile(layerNamePattern)}
}

type nomenclatureValidatorImpl struct {
	pattern *regexp.Regexp
}

func (n nomenclatureValidatorImpl) ValidateNomenclature(layers []view.LayerInfo) []view.ValidationErrorItem {
	errors := make([]view.ValidationErrorItem, 0)
	if layers == nil {
		log.Warn("Nomenclature validation called with nil layer list")
		return errors
	}

	for _, layer := range layers {
		if !n.pattern.MatchString(layer.Name) {
			errors = append(errors, view.ValidationErrorItem{
				Category: view.CategoryNomenclature,
				Target:   layer.Name,
				Message:  fmt.Sprintf("Layer name '%s' does not match the required pattern. Expected format: %s", layer.Name, layerPatternDescription),
			})
		}
	}

	log.Debugf("Nomenclature validation: %d layers checked, %d errors", len(layers), len(errors))
	return errors
}
