package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stonefab/block-validation-service/client"
	"github.com/stonefab/block-validation-service/entity"
	"github.com/stonefab/block-validation-service/exception"
	"github.com/stonefab/block-validation-service/repository"
	"github.com/stonefab/block-validation-service/view"
	log "github.com/sirupsen/logrus"
)

const allowedExtension = ".3dm"
const uploadPathPrefix = "uploads"
const presignedUrlExpiration = time.Second * 300

// UploadService issues presigned upload URLs and turns confirmed uploads into
// block records with a pending validation task.
type UploadService interface {
	GenerateUploadUrl(ctx context.Context, filename string) (*view.UploadUrlResponse, error)
	ConfirmUpload(ctx context.Context, req view.ConfirmUploadRequest) (*view.ConfirmUploadResponse, error)
}

func NewUploadService(storage client.FileStorageClient, blockRepo repository.BlockRepository, taskRepo repository.ValidationTaskRepository) UploadService {
	return &uploadServiceImpl{storage: storage, blockRepo: blockRepo, taskRepo: taskRepo}
}

type uploadServiceImpl struct {
	storage   client.FileStorageClient
	blockRepo repository.BlockRepository
	taskRepo  repository.ValidationTaskRepository
}

func (u uploadServiceImpl) GenerateUploadUrl(ctx context.Context, filename string) (*view.UploadUrlResponse, error) {
	if !strings.HasSuffix(strings.ToLower(filename), allowedExtension) {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.UnsupportedFileExtension,
			Message: exception.UnsupportedFileExtensionMsg,
			Params:  map[string]interface{}{"extension": allowedExtension},
		}
	}

	fileId := uuid.New().String()
	fileKey := fmt.Sprintf("%s/%s/%s", uploadPathPrefix, fileId, filename)

	uploadUrl, err := u.storage.GenerateUploadUrl(ctx, fileKey, presignedUrlExpiration)
	if err != nil {
		log.Errorf("Failed to generate upload url for %s: %s", fileKey, err)
		return nil, &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.UploadUrlGenerationFailed,
			Message: exception.UploadUrlGenerationFailedMsg,
			Params:  map[string]interface{}{"filename": filename},
			Debug:   err.Error(),
		}
	}

	return &view.UploadUrlResponse{
		FileId:    fileId,
		UploadUrl: uploadUrl,
		FileKey:   fileKey,
		Filename:  filename,
	}, nil
}

func (u uploadServiceImpl) ConfirmUpload(ctx context.Context, req view.ConfirmUploadRequest) (*view.ConfirmUploadResponse, error) {
	exists, err := u.storage.FileExists(ctx, req.FileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check file %s in storage: %w", req.FileKey, err)
	}
	if !exists {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.FileNotFoundInStorage,
			Message: exception.FileNotFoundInStorageMsg,
			Params:  map[string]interface{}{"fileKey": req.FileKey},
		}
	}

	now := time.Now()

	blockEnt := entity.Block{
		Id:        req.FileId,
		FileKey:   req.FileKey,
		FileName:  req.Filename,
		Status:    view.BlockStatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.blockRepo.CreateBlock(ctx, blockEnt); err != nil {
		return nil, fmt.Errorf("failed to create block for file %s: %w", req.FileId, err)
	}

	taskEnt := entity.BlockValidationTask{
		Id:        uuid.New().String(),
		BlockId:   blockEnt.Id,
		FileKey:   req.FileKey,
		Status:    view.TaskStatusNotStarted,
		CreatedAt: now,
	}
	if err := u.taskRepo.CreateTask(ctx, taskEnt); err != nil {
		return nil, fmt.Errorf("failed to create validation task for block %s: %w", blockEnt.Id, err)
	}

	log.Infof("Upload confirmed for block %s, validation task %s created", blockEnt.Id, taskEnt.Id)

	return &view.ConfirmUploadResponse{
		BlockId: blockEnt.Id,
		TaskId:  taskEnt.Id,
	}, nil
}
