// Package attendance 排班打卡状态机：NOT_STARTED → CHECKED_IN → DONE。
//
// Guard 在发起任何数据库调用之前拦截非法的打卡动作；地理围栏、定位精度、
// 打卡时间窗口等规则由数据库过程 punch_assignment 判定，本包只负责把
// 它返回的错误归类为更友好的提示（见 rejection.go），不作为权威校验。
package attendance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status 打卡状态
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusDone       Status = "DONE"
)

// Action 打卡动作
type Action string

const (
	ActionIn  Action = "IN"
	ActionOut Action = "OUT"
)

var ErrInvalidAction = errors.New("无效的打卡动作")

// ParseAction 解析打卡动作（大小写不敏感）
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToUpper(strings.TrimSpace(s))) {
	case ActionIn:
		return ActionIn, nil
	case ActionOut:
		return ActionOut, nil
	}
	return "", ErrInvalidAction
}

// TransitionError 当前状态不允许该打卡动作
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	switch {
	case e.Action == ActionIn && e.From == StatusCheckedIn:
		return "已签到，不能重复签到"
	case e.Action == ActionIn && e.From == StatusDone:
		return "该排班已完成签到签退"
	case e.Action == ActionOut && e.From == StatusNotStarted:
		return "尚未签到，不能签退"
	case e.Action == ActionOut && e.From == StatusDone:
		return "已签退，不能重复签退"
	}
	return fmt.Sprintf("状态 %s 不允许 %s 打卡", e.From, e.Action)
}

// Record 一条排班的打卡记录
type Record struct {
	CheckInAt  *time.Time
	CheckOutAt *time.Time
	Status     Status
	Done       bool
}

// StatusOf 由签到/签退时间推导状态
func StatusOf(checkInAt, checkOutAt *time.Time) Status {
	switch {
	case checkInAt != nil && checkOutAt != nil:
		return StatusDone
	case checkInAt != nil:
		return StatusCheckedIn
	}
	return StatusNotStarted
}

// Normalize 按签到/签退时间重新推导 Status 与 Done，保证三者一致
func (r Record) Normalize() Record {
	r.Status = StatusOf(r.CheckInAt, r.CheckOutAt)
	r.Done = r.Status == StatusDone
	return r
}

// Guard 判断当前状态是否允许该动作：IN 仅限 NOT_STARTED，OUT 仅限 CHECKED_IN
func Guard(current Status, action Action) error {
	if current == "" {
		current = StatusNotStarted
	}
	switch action {
	case ActionIn:
		if current == StatusNotStarted {
			return nil
		}
	case ActionOut:
		if current == StatusCheckedIn {
			return nil
		}
	default:
		return ErrInvalidAction
	}
	return &TransitionError{From: current, Action: action}
}

// Apply 在本地记录上执行一次打卡，返回新记录；非法动作返回 *TransitionError
func Apply(r Record, action Action, at time.Time) (Record, error) {
	r = r.Normalize()
	if err := Guard(r.Status, action); err != nil {
		return r, err
	}

	t := at
	switch action {
	case ActionIn:
		r.CheckInAt = &t
	case ActionOut:
		r.CheckOutAt = &t
	}
	return r.Normalize(), nil
}
