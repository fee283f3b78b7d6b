package view

import "time"

// Error categories used in validation reports.
const (
	CategoryNomenclature = "nomenclature"
	CategoryGeometry     = "geometry"
	CategoryIO           = "io"
)

type ValidationErrorItem struct {
	Category string `json:"category"`
	Target   string `json:"target"`
	Message  string `json:"message"`
}

// ValidationReport is the persisted report shape. The field names and JSON tags
// are a stable contract for external readers, do not rename.
type ValidationReport struct {
	IsValid     bool                   `json:"is_valid"`
	Errors      []ValidationErrorItem  `json:"errors"`
	Metadata    map[string]interface{} `json:"metadata"`
	ValidatedAt time.Time              `json:"validated_at"`
	ValidatedBy string                 `json:"validated_by"`
}
