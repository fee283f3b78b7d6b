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

type BlockRepository interface {
	CreateBlock(ctx context.Context, ent entity.Block) error
	GetBlock(ctx context.Context, id string) (*entity.Block, error)
	UpdateBlockStatus(ctx context.Context, id string, status view.BlockStatus) error
	SaveValidationReport(ctx context.Context, id string, report *view.ValidationReport) error
}

func NewBlockRepository(cp db.ConnectionProvider) BlockRepository {
	return &blockRepositoryImpl{cp: cp}
}

type blockRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (b blockRepositoryImpl) CreateBlock(ctx context.Context, ent entity.Block) error {
	_, err := b.cp.GetConnection().ModelContext(ctx, &ent).Insert()
	return err
}

func (b blockRepositoryImpl) GetBlock(ctx context.Context, id string) (*entity.Block, error) {
	var ent entity.Block
	err := b.cp.GetConnection().ModelContext(ctx, &ent).Where("id = ?", id).First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &ent, nil
}

// UpdateBlockStatus is an absolute set, not a delta: re-running a task with
// the same id writes the same terminal state.
func (b blockRepositoryImpl) UpdateBlockStatus(ctx context.Context, id string, status view.BlockStatus) error {
	res, err := b.cp.GetConnection().ModelContext(ctx, &entity.Block{}).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("block %s not found", id)
	}
	return nil
}

// SaveValidationReport overwrites the whole report column. A later validation
// run supersedes the previous report, there is no history.
func (b blockRepositoryImpl) SaveValidationReport(ctx context.Context, id string, report *view.ValidationReport) error {
	res, err := b.cp.GetConnection().ModelContext(ctx, &entity.Block{}).
		Set("validation_report = ?", report).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("block %s not found", id)
	}
	return nil
}
