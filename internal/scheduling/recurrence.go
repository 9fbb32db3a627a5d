package scheduling

import "time"

// 重复排班的取值范围
const (
	MinRepeatCount        = 0
	MaxRepeatCount        = 60
	MinRepeatInterval     = 1
	MaxRepeatInterval     = 30
	DefaultRepeatInterval = 7
)

// Repeat 重复设置：在基础排班之后再生成 Count 条，每条间隔 IntervalDays 天
type Repeat struct {
	Count        int
	IntervalDays int
}

// NormalizeRepeat 将重复设置收敛到合法范围，越界值静默截断而非报错。
// interval 为 nil 时取默认 7 天。
func NormalizeRepeat(count int, interval *int) Repeat {
	days := DefaultRepeatInterval
	if interval != nil {
		days = *interval
	}
	return Repeat{
		Count:        clamp(count, MinRepeatCount, MaxRepeatCount),
		IntervalDays: clamp(days, MinRepeatInterval, MaxRepeatInterval),
	}
}

// Occurrence 由重复设置派生出的一次排班（Index 从 1 开始，0 为基础排班）
type Occurrence struct {
	Index   int
	StartAt time.Time
	EndAt   time.Time
}

// Expand 生成基础排班之后的派生排班，不包含基础排班本身。
// 第 i 条的开始/结束均为基础值平移 IntervalDays*i 天。
func Expand(start, end time.Time, r Repeat) []Occurrence {
	r = NormalizeRepeat(r.Count, &r.IntervalDays)
	if r.Count == 0 {
		return nil
	}

	out := make([]Occurrence, 0, r.Count)
	for i := 1; i <= r.Count; i++ {
		offset := r.IntervalDays * i
		out = append(out, Occurrence{
			Index:   i,
			StartAt: ShiftByDays(start, offset),
			EndAt:   ShiftByDays(end, offset),
		})
	}
	return out
}

// ResolveGroupID 决定保存时使用的重复组 ID。
// 新建且需要重复时：沿用传入的组 ID，否则调用 newID 生成；
// 其余情况：沿用传入的组 ID（可能为空）。
func ResolveGroupID(isCreate bool, inputGroupID *string, repeatCount int, newID func() string) *string {
	if inputGroupID != nil && *inputGroupID != "" {
		id := *inputGroupID
		return &id
	}
	if isCreate && repeatCount > 0 {
		id := newID()
		return &id
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
