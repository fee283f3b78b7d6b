package view

import "time"

type BlockStatus string

const (
	BlockStatusUploaded        BlockStatus = "uploaded"
	BlockStatusProcessing      BlockStatus = "processing"
	BlockStatusValidated       BlockStatus = "validated"
	BlockStatusRejected        BlockStatus = "rejected"
	BlockStatusErrorProcessing BlockStatus = "error_processing"
)

type Block struct {
	Id               string            `json:"id"`
	FileKey          string            `json:"fileKey"`
	FileName         string            `json:"fileName"`
	Status           BlockStatus       `json:"status"`
	ValidationReport *ValidationReport `json:"validationReport,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}
