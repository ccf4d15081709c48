// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// BusinessIdea 已保存的创意快照，写入后不再修改（view_count 除外）
type BusinessIdea struct {
	ID            string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Prompt        string         `json:"prompt" gorm:"type:text;not null"`
	GeneratedIdea datatypes.JSON `json:"generated_idea" gorm:"type:jsonb;not null"`
	Filters       datatypes.JSON `json:"filters,omitempty" gorm:"type:jsonb"`
	Name          string         `json:"name" gorm:"type:varchar(255)"`
	ToolsNeeded   pq.StringArray `json:"tools_needed" gorm:"type:text[]"`
	Difficulty    string         `json:"difficulty" gorm:"type:varchar(32)"`
	Category      string         `json:"category" gorm:"type:varchar(64);index"`
	IsPublic      bool           `json:"is_public" gorm:"not null;default:true;index"`
	ViewCount     int64          `json:"view_count" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
}

func (BusinessIdea) TableName() string {
	return "business_ideas"
}
