package service

import (
	"context"
	"time"

	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	"github.com/stonefab/block-validation-service/repository"
	"github.com/stonefab/block-validation-service/view"
	log "github.com/sirupsen/logrus"
)

// ValidationReportService assembles and persists validation reports. A report
// is valid iff its error list is empty; IsValid is always derived, never set
// by callers.
type ValidationReportService interface {
	CreateReport(errors []view.ValidationErrorItem, metadata map[string]interface{}, validatedBy string) view.ValidationReport
	SaveReport(ctx context.Context, blockId string, report view.ValidationReport) error
	GetReport(ctx context.Context, blockId string) (*view.ValidationReport, error)
}

func NewValidationReportService(blockRepo repository.BlockRepository) ValidationReportService {
	cache := libcache.LRU.New(1000)
	cache.SetTTL(time.Minute * 10)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})
	return &validationReportServiceImpl{blockRepo: blockRepo, reportCache: cache}
}

type validationReportServiceImpl struct {
	blockRepo   repository.BlockRepository
	reportCache libcache.Cache
}

func (v validationReportServiceImpl) CreateReport(errors []view.ValidationErrorItem, metadata map[string]interface{}, validatedBy string) view.ValidationReport {
	if errors == nil {
		errors = []view.ValidationErrorItem{}
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return view.ValidationReport{
		IsValid:     len(errors) == 0,
		Errors:      errors,
		Metadata:    metadata,
		ValidatedAt: time.Now().UTC(),
		ValidatedBy: validatedBy,
	}
}

func (v validationReportServiceImpl) SaveReport(ctx context.Context, blockId string, report view.ValidationReport) error {
	err := v.blockRepo.SaveValidationReport(ctx, blockId, &report)
	if err != nil {
		return err
	}
	v.reportCache.Store(blockId, &report)
	return nil
}

func (v validationReportServiceImpl) GetReport(ctx context.Context, blockId string) (*view.ValidationReport, error) {
	if cached, ok := v.reportCache.Load(blockId); ok {
		report, ok := cached.(*view.ValidationReport)
		if ok {
			return report, nil
		}
		log.Errorf("Unexpected report cache entry type for block %s, evicting", blockId)
		v.reportCache.Delete(blockId)
	}

	block, err := v.blockRepo.GetBlock(ctx, blockId)
	if err != nil {
		return nil, err
	}
	if block == nil || block.ValidationReport == nil {
		return nil, nil
	}
	v.reportCache.Store(blockId, block.ValidationReport)
	return block.ValidationReport, nil
}
