package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/stonefab/block-validation-service/db"
	"github.com/stonefab/block-validation-service/entity"
	"github.com/stonefab/block-validation-service/view"
)

type ValidationTaskRepository interface {
	CreateTask(ctx context.Context, ent entity.BlockValidationTask) error
	FindFreeTask(ctx context.Context, executorId string) (*entity.BlockValidationTask, error)
	SetTaskStatus(ctx context.Context, taskId string, status view.TaskStatus, details string, executorId string) error
	SetTaskResult(ctx context.Context, taskId string, status view.TaskStatus, details string, processTimeMs int) error
}

func NewValidationTaskRepository(cp db.ConnectionProvider) ValidationTaskRepository {
	return &validationTaskRepositoryImpl{cp: cp}
}

type validationTaskRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (v validationTaskRepositoryImpl) CreateTask(ctx context.Context, ent entity.BlockValidationTask) error {
	_, err := v.cp.GetConnection().ModelContext(ctx, &ent).Insert()
	return err
}

const taskKeepaliveTimeoutSec = 30

// One task per restart policy: a task restarted taskMaxRestarts times without
// settling is failed for good and its block is moved to error_processing, so
// a unit of work is never observably stuck in processing.
const taskMaxRestarts = 3

var queryFreeTask = fmt.Sprintf("select * from block_validation_task b where "+
	"(b.status='%s' or (b.status='%s' and b.last_active < (now() - interval '%d seconds'))) "+
	"order by b.created_at ASC limit 1 for no key update skip locked", view.TaskStatusNotStarted, view.TaskStatusProcessing, taskKeepaliveTimeoutSec)

func (v validationTaskRepositoryImpl) FindFreeTask(ctx context.Context, executorId string) (*entity.BlockValidationTask, error) {
	var result *entity.BlockValidationTask
	var err error

	for {
		taskFailed := false
		err = v.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
			var ents []entity.BlockValidationTask

			_, err := tx.Query(&ents, queryFreeTask)
			if err != nil {
				if err == pg.ErrNoRows {
					return nil
				}
				return fmt.Errorf("failed to find free validation task: %w", err)
			}
			if len(ents) > 0 {
				result = &ents[0]

				if result.RestartCount >= taskMaxRestarts {
					_, err := tx.Model(result).
						Where("id = ?", result.Id).
						Set("status = ?", view.TaskStatusError).
						Set("details = ?", fmt.Sprintf("Restart count exceeded limit. Details: %v", result.Details)).
						Set("last_active = now()").
						Update()
					if err != nil {
						return err
					}
					_, err = tx.Model(&entity.Block{}).
						Set("status = ?", view.BlockStatusErrorProcessing).
						Set("updated_at = now()").
						Where("id = ?", result.BlockId).
						Update()
					if err != nil {
						return err
					}
					taskFailed = true
					return nil
				}

				// take free task
				isFirstRun := result.Status == view.TaskStatusNotStarted

				if !isFirstRun {
					result.RestartCount += 1
				}

				result.Status = view.TaskStatusProcessing
				result.ExecutorId = executorId

				_, err = tx.Model(result).
					Set("status = ?status").
					Set("executor_id = ?executor_id").
					Set("restart_count = ?restart_count").
					Set("last_active = now()").
					Where("id = ?", result.Id).
					Update()
				if err != nil {
					return fmt.Errorf("unable to update validation task status during takeTask: %w", err)
				}

				return nil
			}
			return nil
		})
		if taskFailed {
			result = nil
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (v validationTaskRepositoryImpl) SetTaskStatus(ctx context.Context, taskId string, status view.TaskStatus, details string, executorId string) error {
	_, err := v.cp.GetConnection().ModelContext(ctx, &entity.BlockValidationTask{}).
		Set("status = ?", status).
		Set("details = ?", details).
		Set("executor_id = ?", executorId).
		Set("last_active = ?", time.Now()).
		Where("id = ?", taskId).
		Update()
	return err
}

func (v validationTaskRepositoryImpl) SetTaskResult(ctx context.Context, taskId string, status view.TaskStatus, details string, processTimeMs int) error {
	_, err := v.cp.GetConnection().ModelContext(ctx, &entity.BlockValidationTask{}).
		Set("status = ?", status).
		Set("details = ?", details).
		Set("process_time_ms = ?", processTimeMs).
		Set("last_active = ?", time.Now()).
		Where("id = ?", taskId).
		Update()
	return err
}

/*
create table block
(
    id                varchar
        constraint block_pk primary key,
    file_key          varchar                     not null,
    file_name         varchar                     not null,
    status            varchar                     not null,
    validation_report jsonb,
    created_at        timestamp without time zone not null,
    updated_at        timestamp without time zone not null
);

create table block_validation_task
(
    id              varchar
        constraint block_validation_task_pk primary key,
    block_id        varchar                     not null
        constraint block_validation_task_block_id_fk
            references block (id),
    file_key        varchar                     not null,
    status          varchar                     not null,
    details         varchar,
    created_at      timestamp without time zone not null,
    executor_id     varchar,
    last_active     timestamp without time zone,
    restart_count   integer                     not null,
    process_time_ms integer
);
*/
