package entity

import (
	"time"

	"github.com/stonefab/block-validation-service/view"
)

type BlockValidationTask struct {
	tableName struct{} `pg:"block_validation_task"`

	Id            string          `pg:"id,pk,type:varchar"`
	BlockId       string          `pg:"block_id,type:varchar,notnull"`
	FileKey       string          `pg:"file_key,type:varchar,notnull"`
	Status        view.TaskStatus `pg:"status,type:varchar,notnull"`
	Details       string          `pg:"details,type:varchar"`
	CreatedAt     time.Time       `pg:"created_at,type:timestamp without time zone,notnull"`
	ExecutorId    string          `pg:"executor_id,type:varchar"`
	LastActive    *time.Time      `pg:"last_active,type:timestamp without time zone"`
	RestartCount  int             `pg:"restart_count,type:integer,notnull"`
	ProcessTimeMs int             `pg:"process_time_ms,type:integer"`
}
