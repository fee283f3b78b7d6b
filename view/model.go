package view

import "time"

// LayerInfo describes one layer of a parsed .3dm file.
// Color, when present, is in ARGB order with each channel in 0-255.
type LayerInfo struct {
	Name        string `json:"name"`
	Index       int    `json:"index"`
	ObjectCount int    `json:"object_count"`
	Color       []int  `json:"color,omitempty"`
	IsVisible   bool   `json:"is_visible"`
}

// UserStringCollection holds user strings extracted from a .3dm file at the
// three scopes Rhino supports. Layers and objects are sparse: an entry exists
// only if that layer/object carries at least one user string.
type UserStringCollection struct {
	Document map[string]string            `json:"document"`
	Layers   map[string]map[string]string `json:"layers"`
	Objects  map[string]map[string]string `json:"objects"`
}

func NewUserStringCollection() UserStringCollection {
	return UserStringCollection{
		Document: map[string]string{},
		Layers:   map[string]map[string]string{},
		Objects:  map[string]map[string]string{},
	}
}

// FileProcessingResult is the outcome of one parse attempt. It is consumed by
// the task processor and never persisted verbatim.
type FileProcessingResult struct {
	Success      bool
	ErrorMessage string
	Layers       []LayerInfo
	FileMetadata map[string]interface{}
	UserStrings  *UserStringCollection
	ParsedAt     time.Time
}
