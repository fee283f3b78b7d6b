package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stonefab/block-validation-service/client"
	"github.com/stonefab/block-validation-service/entity"
	"github.com/stonefab/block-validation-service/view"
)

type fakeBlockRepository struct {
	mu     sync.Mutex
	blocks map[string]*entity.Block
}

func newFakeBlockRepository() *fakeBlockRepository {
	return &fakeBlockRepository{blocks: map[string]*entity.Block{}}
}

func (f *fakeBlockRepository) CreateBlock(ctx context.Context, ent entity.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.blocks[ent.Id]; exists {
		return fmt.Errorf("block %s already exists", ent.Id)
	}
	f.blocks[ent.Id] = &ent
	return nil
}

func (f *fakeBlockRepository) GetBlock(ctx context.Context, id string) (*entity.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, ok := f.blocks[id]
	if !ok {
		return nil, nil
	}
	copied := *ent
	return &copied, nil
}

func (f *fakeBlockRepository) UpdateBlockStatus(ctx context.Context, id string, status view.BlockStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, ok := f.blocks[id]
	if !ok {
		return fmt.Errorf("block %s not found", id)
	}
	ent.Status = status
	ent.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBlockRepository) SaveValidationReport(ctx context.Context, id string, report *view.ValidationReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, ok := f.blocks[id]
	if !ok {
		return fmt.Errorf("block %s not found", id)
	}
	ent.ValidationReport = report
	ent.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBlockRepository) status(id string) view.BlockStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, ok := f.blocks[id]
	if !ok {
		return ""
	}
	return ent.Status
}

func (f *fakeBlockRepository) report(id string) *view.ValidationReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, ok := f.blocks[id]
	if !ok {
		return nil
	}
	return ent.ValidationReport
}

type taskResult struct {
	status        view.TaskStatus
	details       string
	processTimeMs int
}

type fakeTaskRepository struct {
	mu      sync.Mutex
	tasks   map[string]*entity.BlockValidationTask
	results map[string]taskResult
	// statusUpdates counts keepalive/status writes per task
	statusUpdates map[string]int
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{
		tasks:         map[string]*entity.BlockValidationTask{},
		results:       map[string]taskResult{},
		statusUpdates: map[string]int{},
	}
}

func (f *fakeTaskRepository) CreateTask(ctx context.Context, ent entity.BlockValidationTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[ent.Id] = &ent
	return nil
}

func (f *fakeTaskRepository) FindFreeTask(ctx context.Context, executorId string) (*entity.BlockValidationTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, task := range f.tasks {
		if task.Status == view.TaskStatusNotStarted {
			task.Status = view.TaskStatusProcessing
			task.ExecutorId = executorId
			copied := *task
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTaskRepository) SetTaskStatus(ctx context.Context, taskId string, status view.TaskStatus, details string, executorId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates[taskId]++
	if task, ok := f.tasks[taskId]; ok {
		task.Status = status
		task.Details = details
		task.ExecutorId = executorId
	}
	return nil
}

func (f *fakeTaskRepository) SetTaskResult(ctx context.Context, taskId string, status view.TaskStatus, details string, processTimeMs int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[taskId] = taskResult{status: status, details: details, processTimeMs: processTimeMs}
	if task, ok := f.tasks[taskId]; ok {
		task.Status = status
		task.Details = details
	}
	return nil
}

func (f *fakeTaskRepository) result(taskId string) (taskResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.results[taskId]
	return res, ok
}

type fakeStorageClient struct {
	mu    sync.Mutex
	files map[string][]byte
	// downloadErr overrides lookups with a transport failure
	downloadErr  error
	presignErr   error
	presignedUrl string
}

func newFakeStorageClient() *fakeStorageClient {
	return &fakeStorageClient{files: map[string][]byte{}, presignedUrl: "https://s3.local/presigned"}
}

func (f *fakeStorageClient) DownloadFile(ctx context.Context, fileKey string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.files[fileKey]
	if !ok {
		return nil, client.ErrFileNotFound
	}
	return data, nil
}

func (f *fakeStorageClient) FileExists(ctx context.Context, fileKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[fileKey]
	return ok, nil
}

func (f *fakeStorageClient) GenerateUploadUrl(ctx context.Context, fileKey string, expires time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return f.presignedUrl + "/" + fileKey, nil
}

type notifiedEvent struct {
	blockId string
	status  view.BlockStatus
	report  *view.ValidationReport
}

type fakeNotificationClient struct {
	mu     sync.Mutex
	events []notifiedEvent
}

func (f *fakeNotificationClient) BlockSettled(ctx context.Context, blockId string, status view.BlockStatus, report *view.ValidationReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, notifiedEvent{blockId: blockId, status: status, report: report})
	return nil
}

func (f *fakeNotificationClient) waitForEvent(timeout time.Duration) (notifiedEvent, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if len(f.events) > 0 {
			event := f.events[0]
			f.mu.Unlock()
			return event, true
		}
		f.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	return notifiedEvent{}, false
}
