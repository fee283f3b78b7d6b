package service

import (
	"context"

	"github.com/stonefab/block-validation-service/entity"
	"github.com/stonefab/block-validation-service/repository"
	"github.com/stonefab/block-validation-service/view"
)

type BlockService interface {
	GetBlock(ctx context.Context, blockId string) (*view.Block, error)
}

func NewBlockService(blockRepo repository.BlockRepository) BlockService {
	return &blockServiceImpl{blockRepo: blockRepo}
}

type blockServiceImpl struct {
	blockRepo repository.BlockRepository
}

func (b blockServiceImpl) GetBlock(ctx context.Context, blockId string) (*view.Block, error) {
	ent, err := b.blockRepo.GetBlock(ctx, blockId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, nil
	}
	result := entity.MakeBlockView(*ent)
	return &result, nil
}
