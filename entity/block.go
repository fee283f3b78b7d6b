package entity

import (
	"time"

	"github.com/stonefab/block-validation-service/view"
)

type Block struct {
	tableName struct{} `pg:"block"`

	Id               string                 `pg:"id,pk,type:varchar"`
	FileKey          string                 `pg:"file_key,type:varchar,notnull"`
	FileName         string                 `pg:"file_name,type:varchar,notnull"`
	Status           view.BlockStatus       `pg:"status,type:varchar,notnull"`
	ValidationReport *view.ValidationReport `pg:"validation_report,type:jsonb"`
	CreatedAt        time.Time              `pg:"created_at,type:timestamp without time zone,notnull"`
	UpdatedAt        time.Time              `pg:"updated_at,type:timestamp without time zone,notnull"`
}

func MakeBlockView(ent Block) view.Block {
	return view.Block{
		Id:               ent.Id,
		FileKey:          ent.FileKey,
		FileName:         ent.FileName,
		Status:           ent.Status,
		ValidationReport: ent.ValidationReport,
		CreatedAt:        ent.CreatedAt,
		UpdatedAt:        ent.UpdatedAt,
	}
}
