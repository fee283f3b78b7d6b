package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/stonefab/block-validation-service/client"
	"github.com/stonefab/block-validation-service/entity"
	"github.com/stonefab/block-validation-service/repository"
	"github.com/stonefab/block-validation-service/utils"
	"github.com/stonefab/block-validation-service/view"
	log "github.com/sirupsen/logrus"
)

// Large .3dm files (up to 500MB) can take several minutes to parse, so the
// hard task deadline is generous. The soft limit only logs, cleanup is
// handled by defers on the hard limit too.
const taskTimeLimit = time.Minute * 10
const taskSoftTimeLimit = time.Minute * 9

const taskPollInterval = time.Second * 5
const taskKeepaliveInterval = time.Second * 5

const tempDirName = "block-validation"

// BlockTaskProcessor drives the validation pipeline for one claimed task at a
// time: fetch the file to a temp path, parse it, run the nomenclature and
// geometry validators, persist the assembled report and settle the block
// status. Every failure mode maps to a terminal block state; nothing escapes
// the processor as a crash.
type BlockTaskProcessor interface {
	Start()
}

func NewBlockTaskProcessor(taskRepo repository.ValidationTaskRepository, blockRepo repository.BlockRepository,
	reportService ValidationReportService, parser RhinoParserService,
	nomenclatureValidator NomenclatureValidator, geometryValidator GeometryValidator,
	storage client.FileStorageClient, notifier client.NotificationClient, executorId string) BlockTaskProcessor {
	return &blockTaskProcessorImpl{
		taskRepo:              taskRepo,
		blockRepo:             blockRepo,
		reportService:         reportService,
		parser:                parser,
		nomenclatureValidator: nomenclatureValidator,
		geometryValidator:     geometryValidator,
		storage:               storage,
		notifier:              notifier,
		executorId:            executorId,
	}
}

type blockTaskProcessorImpl struct {
	taskRepo              repository.ValidationTaskRepository
	blockRepo             repository.BlockRepository
	reportService         ValidationReportService
	parser                RhinoParserService
	nomenclatureValidator NomenclatureValidator
	geometryValidator     GeometryValidator
	storage               client.FileStorageClient
	notifier              client.NotificationClient

	executorId string
}

func (b blockTaskProcessorImpl) Start() {
	utils.SafeAsync(func() {
		ticker := time.NewTicker(taskPollInterval)

		running := atomic.Bool{}

		for range ticker.C {
			if running.Load() {
				log.Tracef("blockTaskProcessorImpl: ticker skipped, running")
				continue
			}

			utils.SafeAsync(func() {
				running.Store(true)
				for {
					moreWork := b.processTask()
					if moreWork == false {
						break
					}
					log.Tracef("blockTaskProcessorImpl: keep on running")
				}
				running.Store(false)
			})
		}
	})
}

func (b blockTaskProcessorImpl) processTask() bool {
	task, err := b.taskRepo.FindFreeTask(context.Background(), b.executorId)
	if err != nil {
		log.Errorf("Error finding free validation task: %s", err)
		return false
	}
	if task != nil {
		b.processBlockTask(context.Background(), *task)
		return true
	}
	return false
}

func (b blockTaskProcessorImpl) processBlockTask(ctx context.Context, task entity.BlockValidationTask) {
	ctx, cancel := context.WithTimeout(ctx, taskTimeLimit)
	defer cancel()

	start := time.Now()

	softTimer := time.AfterFunc(taskSoftTimeLimit, func() {
		log.Warnf("Validation task %s for block %s is approaching the hard deadline", task.Id, task.BlockId)
	})
	defer softTimer.Stop()

	runningC := make(chan struct{})
	defer func() {
		close(runningC)
	}()

	// Update last_active during long runs so other executors don't steal the task
	utils.SafeAsync(func() {
		t := time.NewTicker(taskKeepaliveInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-runningC:
				return
			case <-t.C:
				err := b.taskRepo.SetTaskStatus(ctx, task.Id, view.TaskStatusProcessing, "", b.executorId)
				if err != nil {
					log.Errorf("Error updating status of validation task %s: %s", task.Id, err)
				}
			}
		}
	})

	err := utils.SafeCall(func() error {
		b.runValidation(ctx, task, start)
		return nil
	})
	if err != nil {
		// Outermost boundary: an unexpected panic settles the block instead
		// of leaving it stuck in processing
		log.Errorf("Validation task %s failed unexpectedly: %s", task.Id, err)
		item := view.ValidationErrorItem{
			Category: view.CategoryIO,
			Target:   task.FileKey,
			Message:  fmt.Sprintf("Unexpected error: %s", err),
		}
		b.settleFailure(task, item, start)
	}
}

func (b blockTaskProcessorImpl) runValidation(ctx context.Context, task entity.BlockValidationTask, start time.Time) {
	log.Infof("Processing validation task %s for block %s", task.Id, task.BlockId)

	// Best effort: a failed transition to processing is logged but does not
	// abort the pipeline
	if err := b.blockRepo.UpdateBlockStatus(ctx, task.BlockId, view.BlockStatusProcessing); err != nil {
		log.Errorf("Failed to move block %s to processing: %s", task.BlockId, err)
	}

	data, err := b.storage.DownloadFile(ctx, task.FileKey)
	if err != nil {
		var message string
		if errors.Is(err, client.ErrFileNotFound) {
			message = fmt.Sprintf("S3 download failed: file not found for key %s", task.FileKey)
		} else {
			message = fmt.Sprintf("S3 download error: %s", err)
		}
		log.Errorf("Download failed for block %s: %s", task.BlockId, message)
		b.settleFailure(task, view.ValidationErrorItem{
			Category: view.CategoryIO,
			Target:   task.FileKey,
			Message:  message,
		}, start)
		return
	}

	fileHash := utils.CreateSHA256Hash(data)
	log.Debugf("Downloaded %d bytes for block %s, sha256 %s", len(data), task.BlockId, fileHash)

	tempDir := filepath.Join(os.TempDir(), tempDirName, task.Id)
	if err := os.MkdirAll(tempDir, 0700); err != nil {
		b.settleFailure(task, view.ValidationErrorItem{
			Category: view.CategoryIO,
			Target:   task.FileKey,
			Message:  fmt.Sprintf("Error creating temp directory: %s", err),
		}, start)
		return
	}
	defer os.RemoveAll(tempDir)

	parts := strings.Split(task.FileKey, "/")
	fileName := parts[len(parts)-1]

	filePath := filepath.Join(tempDir, fileName)
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		b.settleFailure(task, view.ValidationErrorItem{
			Category: view.CategoryIO,
			Target:   task.FileKey,
			Message:  fmt.Sprintf("Error writing temp file: %s", err),
		}, start)
		return
	}

	parseResult, model := b.parser.ParseFile(filePath)

	if !parseResult.Success {
		log.Errorf("Parse failed for block %s: %s", task.BlockId, parseResult.ErrorMessage)
		b.settleFailure(task, view.ValidationErrorItem{
			Category: view.CategoryIO,
			Target:   task.FileKey,
			Message:  parseResult.ErrorMessage,
		}, start)
		return
	}

	// Nomenclature findings precede geometry findings in the final list
	validationErrors := b.nomenclatureValidator.ValidateNomenclature(parseResult.Layers)
	validationErrors = append(validationErrors, b.geometryValidator.ValidateGeometry(model)...)

	metadata := map[string]interface{}{
		"layers":      parseResult.Layers,
		"file_sha256": fileHash,
	}
	for key, value := range parseResult.FileMetadata {
		metadata[key] = value
	}
	if parseResult.UserStrings != nil {
		metadata["user_strings"] = parseResult.UserStrings
	}

	report := b.reportService.CreateReport(validationErrors, metadata, b.executorId)

	blockStatus := view.BlockStatusValidated
	if !report.IsValid {
		blockStatus = view.BlockStatusRejected
	}

	// Settle writes run on a fresh context: the task deadline must not leave
	// the block without a terminal state
	settleCtx := context.Background()

	if err := b.reportService.SaveReport(settleCtx, task.BlockId, report); err != nil {
		b.handleTaskError(task, fmt.Errorf("failed to save validation report: %w", err), start)
		return
	}
	if err := b.blockRepo.UpdateBlockStatus(settleCtx, task.BlockId, blockStatus); err != nil {
		b.handleTaskError(task, fmt.Errorf("failed to settle block status: %w", err), start)
		return
	}

	elapsedMs := int(time.Since(start).Milliseconds())
	if err := b.taskRepo.SetTaskResult(settleCtx, task.Id, view.TaskStatusSuccess, "", elapsedMs); err != nil {
		log.Errorf("Failed to mark validation task %s as finished: %s", task.Id, err)
	}

	log.Infof("Validation task %s complete: block %s is %s with %d findings (%dms)",
		task.Id, task.BlockId, blockStatus, len(report.Errors), elapsedMs)

	b.notify(task.BlockId, blockStatus, &report)
}

// settleFailure persists a single-finding failure report and moves the block
// to error_processing. Used for io, parse and unexpected failures alike.
func (b blockTaskProcessorImpl) settleFailure(task entity.BlockValidationTask, item view.ValidationErrorItem, start time.Time) {
	ctx := context.Background()

	report := b.reportService.CreateReport([]view.ValidationErrorItem{item}, map[string]interface{}{}, b.executorId)

	if err := b.reportService.SaveReport(ctx, task.BlockId, report); err != nil {
		log.Errorf("Failed to save failure report for block %s: %s", task.BlockId, err)
	}
	if err := b.blockRepo.UpdateBlockStatus(ctx, task.BlockId, view.BlockStatusErrorProcessing); err != nil {
		log.Errorf("Failed to move block %s to error_processing: %s", task.BlockId, err)
	}
	elapsedMs := int(time.Since(start).Milliseconds())
	if err := b.taskRepo.SetTaskResult(ctx, task.Id, view.TaskStatusError, item.Message, elapsedMs); err != nil {
		log.Errorf("Failed to mark validation task %s as failed: %s", task.Id, err)
	}

	b.notify(task.BlockId, view.BlockStatusErrorProcessing, &report)
}

func (b blockTaskProcessorImpl) handleTaskError(task entity.BlockValidationTask, err error, start time.Time) {
	log.Errorf("Validation task %s failed: %s", task.Id, err)
	elapsedMs := int(time.Since(start).Milliseconds())
	setErr := b.taskRepo.SetTaskResult(context.Background(), task.Id, view.TaskStatusError, err.Error(), elapsedMs)
	if setErr != nil {
		log.Errorf("Error updating status of validation task %s: %s", task.Id, setErr)
	}
}

func (b blockTaskProcessorImpl) notify(blockId string, status view.BlockStatus, report *view.ValidationReport) {
	if b.notifier == nil {
		return
	}
	utils.SafeAsync(func() {
		if err := b.notifier.BlockSettled(context.Background(), blockId, status, report); err != nil {
			log.Warnf("Failed to notify about block %s: %s", blockId, err)
		}
	})
}
