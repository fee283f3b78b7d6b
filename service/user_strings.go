package service

import (
	"github.com/stonefab/block-validation-service/rhino"
	"github.com/stonefab/block-validation-service/utils"
	"github.com/stonefab/block-validation-service/view"
	log "github.com/sirupsen/logrus"
)

// UserStringExtractor collects user strings from a parsed model at the three
// scopes Rhino supports: document, layer and object.
//
// Extract never fails: a nil model yields an empty collection, a missing
// string table at any scope yields an empty scope, a failing key lookup skips
// that key, and a panicking layer/object accessor skips that one layer/object
// without aborting extraction for the rest of the file.
type UserStringExtractor interface {
	Extract(model rhino.Model) view.UserStringCollection
}

func NewUserStringExtractor() UserStringExtractor {
	return &userStringExtractorImpl{}
}

type userStringExtractorImpl struct {
}

func (u userStringExtractorImpl) Extract(model rhino.Model) view.UserStringCollection {
	collection := view.NewUserStringCollection()
	if model == nil {
		log.Warn("User string extraction called with nil model")
		return collection
	}

	collection.Document = u.extractDocumentStrings(model)
	collection.Layers = u.extractLayerStrings(model)
	collection.Objects = u.extractObjectStrings(model)

	log.Debugf("Extracted user strings: document keys=%d, layers=%d, objects=%d",
		len(collection.Document), len(collection.Layers), len(collection.Objects))

	return collection
}

func (u userStringExtractorImpl) extractDocumentStrings(model rhino.Model) map[string]string {
	result := map[string]string{}
	err := utils.SafeCall(func() error {
		table, ok := model.Strings()
		if !ok || table == nil {
			return nil
		}
		readStringTable(table, result, "document")
		return nil
	})
	if err != nil {
		log.Errorf("Document user string extraction failed: %s", err)
	}
	return result
}

func (u userStringExtractorImpl) extractLayerStrings(model rhino.Model) map[string]map[string]string {
	result := map[string]map[string]string{}
	err := utils.SafeCall(func() error {
		for _, layer := range model.Layers() {
			layer := layer
			// One bad layer must not abort extraction for the rest
			layerErr := utils.SafeCall(func() error {
				layerName := layer.Name()
				if layerName == "" {
					return nil
				}
				table, ok := layer.UserStrings()
				if !ok || table == nil {
					return nil
				}
				layerStrings := map[string]string{}
				readStringTable(table, layerStrings, "layer "+layerName)
				if len(layerStrings) > 0 {
					result[layerName] = layerStrings
				}
				return nil
			})
			if layerErr != nil {
				log.Errorf("User string extraction failed for a layer, skipping it: %s", layerErr)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Layer user string extraction failed: %s", err)
	}
	return result
}

func (u userStringExtractorImpl) extractObjectStrings(model rhino.Model) map[string]map[string]string {
	result := map[string]map[string]string{}
	err := utils.SafeCall(func() error {
		for _, obj := range model.Objects() {
			obj := obj
			objErr := utils.SafeCall(func() error {
				objectId := obj.Id().String()
				table, ok := obj.UserStrings()
				if !ok || table == nil {
					return nil
				}
				objectStrings := map[string]string{}
				readStringTable(table, objectStrings, "object "+objectId)
				if len(objectStrings) > 0 {
					result[objectId] = objectStrings
				}
				return nil
			})
			if objErr != nil {
				log.Errorf("User string extraction failed for an object, skipping it: %s", objErr)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Object user string extraction failed: %s", err)
	}
	return result
}

// readStringTable copies all readable keys into dst. A key that fails to read
// (e.g. vanished between enumeration and lookup) is logged and skipped.
func readStringTable(table rhino.StringTable, dst map[string]string, scope string) {
	for _, key := range table.Keys() {
		value, err := table.Get(key)
		if err != nil {
			log.Warnf("Failed to read user string key %s at %s scope: %s", key, scope, err)
			continue
		}
		dst[key] = value
	}
}
