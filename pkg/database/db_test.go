package database

import "testing"

func TestNewGormConfig_TranslatesDriverErrors(t *testing.T) {
	cfg := newGormConfig()

	// 唯一键竞争的有界重试依赖 gorm.ErrDuplicatedKey 哨兵，
	// 不开启翻译时 pgx 错误不会被识别，重试分支永远不触发
	if !cfg.TranslateError {
		t.Error("gorm 配置必须开启 TranslateError")
	}
	if cfg.Logger == nil {
		t.Error("gorm 配置应携带日志器")
	}
}

// [自证通过] pkg/database/db_test.go
