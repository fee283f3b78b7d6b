package service

import (
	"testing"

	"github.com/stonefab/block-validation-service/view"
	"github.com/stretchr/testify/assert"
)

func layersNamed(names ...string) []view.LayerInfo {
	layers := make([]view.LayerInfo, 0, len(names))
	for i, name := range names {
		layers = append(layers, view.LayerInfo{Name: name, Index: i})
	}
	return layers
}

func TestValidateNomenclatureGrammar(t *testing.T) {
	validator := NewNomenclatureValidator()

	tests := []struct {
		name  string
		layer string
		valid bool
	}{
		{"canonical example", "SF-NAV-CO-001", true},
		{"max widths", "SFC-NAV1-AB-999", true},
		{"digits in zone", "AB-C0D1-Z-000", true},
		{"single letter type", "AB-CDE-F-000", true},
		{"lowercase rejected", "sf-nav-co-001", false},
		{"mixed case rejected", "Sf-NAV-CO-001", false},
		{"prefix too short", "A-CDE-F-000", false},
		{"prefix too long", "ABCD-CDE-F-000", false},
		{"zone too short", "AB-CD-F-000", false},
		{"zone too long", "AB-CDEFG-F-000", false},
		{"type too long", "AB-CDE-FGH-000", false},
		{"id too short", "AB-CDE-F-00", false},
		{"id too long", "AB-CDE-F-0000", false},
		{"id with letters", "AB-CDE-F-0A0", false},
		{"digits in prefix", "A1-CDE-F-000", false},
		{"missing segment", "AB-CDE-000", false},
		{"trailing garbage", "SF-NAV-CO-001x", false},
		{"leading garbage", "xSF-NAV-CO-001", false},
		{"empty name", "", false},
		{"non-ascii letters", "ÄB-CDE-F-000", false},
		{"unicode digits", "AB-CDE-F-٠٠١", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.ValidateNomenclature(layersNamed(tt.layer))
			if tt.valid {
				assert.Empty(t, errors)
			} else {
				assert.Len(t, errors, 1)
				assert.Equal(t, view.CategoryNomenclature, errors[0].Category)
				assert.Equal(t, tt.layer, errors[0].Target)
				assert.Contains(t, errors[0].Message, "does not match the required pattern")
			}
		})
	}
}

func TestValidateNomenclatureOneFindingPerBadLayer(t *testing.T) {
	validator := NewNomenclatureValidator()

	errors := validator.ValidateNomenclature(layersNamed("SF-NAV-CO-001", "Default", "sf-nav-co-002", "SF-NAV-CO-003"))

	assert.Len(t, errors, 2)
	assert.Equal(t, "Default", errors[0].Target)
	assert.Equal(t, "sf-nav-co-002", errors[1].Target)
}

func TestValidateNomenclatureEmptyInput(t *testing.T) {
	validator := NewNomenclatureValidator()

	errors := validator.ValidateNomenclature(nil)
	assert.NotNil(t, errors)
	assert.Empty(t, errors)

	errors = validator.ValidateNomenclature([]view.LayerInfo{})
	assert.NotNil(t, errors)
	assert.Empty(t, errors)
}
