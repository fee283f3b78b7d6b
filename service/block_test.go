package service

import (
	"context"
	"testing"

	"github.com/stonefab/block-validation-service/entity"
	"github.com/stonefab/block-validation-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBlockMapsEntity(t *testing.T) {
	blockRepo := newFakeBlockRepository()
	service := NewBlockService(blockRepo)
	ctx := context.Background()

	require.NoError(t, blockRepo.CreateBlock(ctx, entity.Block{
		Id:       "block-1",
		FileKey:  "uploads/block-1/model.3dm",
		FileName: "model.3dm",
		Status:   view.BlockStatusUploaded,
	}))

	block, err := service.GetBlock(ctx, "block-1")
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, "block-1", block.Id)
	assert.Equal(t, "uploads/block-1/model.3dm", block.FileKey)
	assert.Equal(t, "model.3dm", block.FileName)
	assert.Equal(t, view.BlockStatusUploaded, block.Status)
	assert.Nil(t, block.ValidationReport)
}

func TestGetBlockUnknownId(t *testing.T) {
	service := NewBlockService(newFakeBlockRepository())

	block, err := service.GetBlock(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, block)
}
