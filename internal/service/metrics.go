package service

import (
	"time"

	"rigops/backend/internal/model"
)

// DefaultShiftHours 起止时间缺失时按标准班次时长计
const DefaultShiftHours = 12.0

const clockLayout = "15:04"

// elapsedHours 计算 "HH:MM" 起止时间之间的小时数
// 结束早于开始视为跨午夜，加 24 小时
func elapsedHours(startClock, endClock string) (float64, bool) {
	start, err := time.Parse(clockLayout, startClock)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse(clockLayout, endClock)
	if err != nil {
		return 0, false
	}
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return end.Sub(start).Hours(), true
}

// ComputeProgressMetrics 重算单条进尺记录的派生指标，纯函数、无 I/O
//
//   - meters_drilled 未填写（为 0）时按深度差补算
//   - recovery_percentage = 100 × (进尺 − 芯损 + 芯增) / 进尺，不截断到 [0,100]，
//     超过 100%（芯增）或为负（芯损超进尺）都是有意义的信号，原样保留
//   - penetration_rate = 进尺 / 经过小时数，起止时间任一缺失或经过时长非正时不计算
func ComputeProgressMetrics(p *model.DrillingProgress) {
	if p.MetersDrilled == 0 {
		p.MetersDrilled = p.EndDepth - p.StartDepth
	}

	p.RecoveryPercentage = nil
	if p.MetersDrilled > 0 {
		recovery := 100 * (p.MetersDrilled - p.CoreLoss + p.CoreGain) / p.MetersDrilled
		p.RecoveryPercentage = &recovery
	}

	p.PenetrationRate = nil
	if p.StartTime != nil && p.EndTime != nil && p.MetersDrilled > 0 {
		if hours, ok := elapsedHours(*p.StartTime, *p.EndTime); ok && hours > 0 {
			rate := p.MetersDrilled / hours
			p.PenetrationRate = &rate
		}
	}
}

// ComputeShiftHours 计算班次时长（小时），起止时间缺失时返回 DefaultShiftHours
func ComputeShiftHours(shift *model.DrillShift) float64 {
	if shift.StartTime == nil || shift.EndTime == nil {
		return DefaultShiftHours
	}
	hours, ok := elapsedHours(*shift.StartTime, *shift.EndTime)
	if !ok {
		return DefaultShiftHours
	}
	return hours
}

// avgPenetration 对有穿透率的记录求平均，无记录时返回 0
func avgPenetration(records []model.DrillingProgress) float64 {
	var sum float64
	var n int
	for i := range records {
		if records[i].PenetrationRate != nil {
			sum += *records[i].PenetrationRate
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// avgRecovery 对有回收率的记录求平均，返回是否存在可平均的记录
func avgRecovery(records []model.DrillingProgress) (float64, bool) {
	var sum float64
	var n int
	for i := range records {
		if records[i].RecoveryPercentage != nil {
			sum += *records[i].RecoveryPercentage
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// totalMeters 进尺合计
func totalMeters(records []model.DrillingProgress) float64 {
	var sum float64
	for i := range records {
		sum += records[i].MetersDrilled
	}
	return sum
}
