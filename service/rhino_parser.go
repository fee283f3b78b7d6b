package service

import (
	"fmt"
	"os"
	"time"

	"github.com/stonefab/block-validation-service/rhino"
	"github.com/stonefab/block-validation-service/utils"
	"github.com/stonefab/block-validation-service/view"
	log "github.com/sirupsen/logrus"
)

// RhinoParserService reads a .3dm file and builds its metadata: layer list
// with per-layer object counts, optional file properties and user strings.
// It fails closed: every failure mode yields a FileProcessingResult with
// Success=false and a descriptive message, never an error escaping to the
// caller. The returned model handle is non-nil only on success; it is passed
// on to the geometry validator which needs object-level access.
type RhinoParserService interface {
	ParseFile(filePath string) (view.FileProcessingResult, rhino.Model)
}

func NewRhinoParserService(lib rhino.Library, extractor UserStringExtractor) RhinoParserService {
	return &rhinoParserServiceImpl{lib: lib, extractor: extractor}
}

type rhinoParserServiceImpl struct {
	lib       rhino.Library
	extractor UserStringExtractor
}

func (p rhinoParserServiceImpl) ParseFile(filePath string) (view.FileProcessingResult, rhino.Model) {
	if p.lib == nil {
		log.Error("3dm parsing requested but no reader library is installed")
		return failedResult("3dm reader library not installed"), nil
	}

	if _, err := os.Stat(filePath); err != nil {
		log.Errorf("File to parse not found: %s", filePath)
		return failedResult(fmt.Sprintf("File not found: %s", filePath)), nil
	}

	log.Debugf("Parsing 3dm file %s", filePath)

	model, err := p.lib.Read(filePath)
	if err != nil || model == nil {
		log.Errorf("Failed to read 3dm file %s: %v", filePath, err)
		return failedResult("Failed to read .3dm file (corrupt or invalid format)"), nil
	}

	var result view.FileProcessingResult
	callErr := utils.SafeCall(func() error {
		result = p.buildResult(model)
		return nil
	})
	if callErr != nil {
		log.Errorf("Error parsing 3dm file %s: %s", filePath, callErr)
		return failedResult(fmt.Sprintf("Error parsing .3dm file: %s", callErr)), nil
	}

	log.Debugf("Parsed 3dm file %s: %d layers", filePath, len(result.Layers))
	return result, model
}

func (p rhinoParserServiceImpl) buildResult(model rhino.Model) view.FileProcessingResult {
	objects := model.Objects()

	layers := make([]view.LayerInfo, 0)
	for idx, layer := range model.Layers() {
		objectCount := 0
		for _, obj := range objects {
			if obj.LayerIndex() == idx {
				objectCount++
			}
		}

		var argb []int
		if color, ok := layer.Color(); ok {
			if normalized, ok := color.ARGB(); ok {
				argb = normalized
			}
		}

		layers = append(layers, view.LayerInfo{
			Name:        layer.Name(),
			Index:       idx,
			ObjectCount: objectCount,
			Color:       argb,
			IsVisible:   layer.IsVisible(),
		})
	}

	// Each property is independently optional, absence just omits the key
	fileMetadata := map[string]interface{}{}
	if units, ok := model.Units(); ok {
		fileMetadata["units"] = units
	}
	if tolerance, ok := model.Tolerance(); ok {
		fileMetadata["tolerance"] = tolerance
	}
	if name, ok := model.ApplicationName(); ok {
		fileMetadata["application_name"] = name
	}
	if version, ok := model.ApplicationVersion(); ok {
		fileMetadata["application_version"] = version
	}

	userStrings := p.extractor.Extract(model)

	return view.FileProcessingResult{
		Success:      true,
		Layers:       layers,
		FileMetadata: fileMetadata,
		UserStrings:  &userStrings,
		ParsedAt:     time.Now().UTC(),
	}
}

func failedResult(message string) view.FileProcessingResult {
	return view.FileProcessingResult{
		Success:      false,
		ErrorMessage: message,
		Layers:       []view.LayerInfo{},
		FileMetadata: map[string]interface{}{},
		ParsedAt:     time.Now().UTC(),
	}
}
