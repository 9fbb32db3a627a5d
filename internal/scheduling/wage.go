package scheduling

import "math"

// WageBreakdown 排班的工资构成
type WageBreakdown struct {
	Quantity   float64 // 小时数或天数
	HourlyRate float64
	DailyRate  float64
	FixedWage  float64
	Expenses   float64
	Extras     float64
	Deductions float64
}

// VariableAmount 计件部分：日薪大于 0 时按日薪计，否则按时薪计
func (w WageBreakdown) VariableAmount() float64 {
	rate := w.HourlyRate
	if w.DailyRate > 0 {
		rate = w.DailyRate
	}
	return w.Quantity * rate
}

// TotalAmount 合计 = round2(计件 + 固定工资 + 费用 + 加项 - 扣款)
func TotalAmount(w WageBreakdown) float64 {
	return Round2(w.VariableAmount() + w.FixedWage + w.Expenses + w.Extras - w.Deductions)
}

// Round2 保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
