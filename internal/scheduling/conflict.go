package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// NoOverlapConstraint 数据库中禁止同一员工排班时间重叠的排他约束名
const NoOverlapConstraint = "assignments_no_overlap"

// PostgreSQL exclusion_violation
const pgExclusionViolation = "23P01"

// ConflictKind 写入错误的归类
type ConflictKind string

const (
	DoubleBookingConflict ConflictKind = "DOUBLE_BOOKING"
	Unclassified          ConflictKind = "UNCLASSIFIED"
)

// ConflictTarget 发生写入的排班（用于生成可读提示）
type ConflictTarget struct {
	EmployeeID string
	StartAt    time.Time
	EndAt      time.Time
}

// ConflictError 归类后的持久化写入错误，Err 保留原始错误
type ConflictError struct {
	Kind    ConflictKind
	Message string
	Err     error
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return e.Err }

// IsDoubleBooking 判断错误是否由排他约束 assignments_no_overlap 触发。
// 优先检查结构化的 SQLSTATE 与约束名，取不到时再退化为按约束名匹配错误文本。
func IsDoubleBooking(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.ConstraintName != "" {
			return pgErr.ConstraintName == NoOverlapConstraint
		}
		if pgErr.Code == pgExclusionViolation && strings.Contains(pgErr.Message, NoOverlapConstraint) {
			return true
		}
	}
	return strings.Contains(err.Error(), NoOverlapConstraint)
}

// ClassifyWriteError 将写入错误归类为重复排班冲突或未归类错误。
// 只做判定，不做任何数据库访问；err 为 nil 时返回 nil。
func ClassifyWriteError(err error, target ConflictTarget) error {
	if err == nil {
		return nil
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce
	}

	if IsDoubleBooking(err) {
		return &ConflictError{
			Kind:    DoubleBookingConflict,
			Message: doubleBookingMessage(target),
			Err:     err,
		}
	}
	return &ConflictError{
		Kind:    Unclassified,
		Message: err.Error(),
		Err:     err,
	}
}

// IsConflict 判断错误链中是否包含指定类别的 ConflictError
func IsConflict(err error, kind ConflictKind) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Kind == kind
}

func doubleBookingMessage(t ConflictTarget) string {
	if t.EmployeeID == "" || t.StartAt.IsZero() {
		return "排班冲突：该员工在此时间段已有排班"
	}
	return fmt.Sprintf("排班冲突：员工 %s 在 %s 至 %s 已有排班",
		t.EmployeeID,
		t.StartAt.UTC().Format(time.RFC3339),
		t.EndAt.UTC().Format(time.RFC3339),
	)
}
