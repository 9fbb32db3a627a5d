// Package scheduling 排班核心计算：日期平移、重复展开、工资合计与冲突归类。
// 本包不访问数据库，全部为纯函数。
package scheduling

import "time"

// DayBucket 排班相对“今天”的分组
type DayBucket string

const (
	BucketPast   DayBucket = "past"
	BucketToday  DayBucket = "today"
	BucketFuture DayBucket = "future"
)

const dateKeyLayout = "2006-01-02"

// ShiftByDays 按 UTC 日历日平移 days 天，保留原始时刻的时分秒。
// 不按业务时区的夏令时修正：跨越时区切换时本地时刻会随偏移漂移。
func ShiftByDays(t time.Time, days int) time.Time {
	return t.UTC().AddDate(0, 0, days).In(t.Location())
}

// BucketRelativeToToday 以业务时区的自然日判断排班属于过去、今天还是未来。
// end 为开区间，取 end-1ms 所在日期作为结束日。
func BucketRelativeToToday(start, end time.Time, loc *time.Location, now time.Time) DayBucket {
	if loc == nil {
		loc = time.UTC
	}
	today := dateKey(now, loc)
	startKey := dateKey(start, loc)
	endKey := dateKey(end.Add(-time.Millisecond), loc)

	if endKey < today {
		return BucketPast
	}
	if startKey > today {
		return BucketFuture
	}
	return BucketToday
}

func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateKeyLayout)
}
