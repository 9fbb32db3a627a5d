//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
	"flowdesks/backend/internal/scheduling"
	"flowdesks/backend/pkg/database"
	pkgerrors "flowdesks/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=flowdesks password=flowdesks_password dbname=flowdesks_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 排他约束与存储过程只能由迁移建立，不能用 AutoMigrate
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupEmployee 创建一名员工并返回清理函数
func setupEmployee(t *testing.T) (*model.Profile, func()) {
	t.Helper()
	p := &model.Profile{
		FullName:     "测试员工",
		Email:        fmt.Sprintf("emp%d@flowdesks.test", time.Now().UnixNano()),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleCollaborator,
		IsActive:     true,
	}
	if err := testDB.Create(p).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	return p, func() {
		testDB.Where("employee_profile_id = ?", p.ProfileID).Delete(&model.Assignment{})
		testDB.Where("profile_id = ?", p.ProfileID).Delete(&model.Profile{})
	}
}

func newAssignment(employeeID string, start time.Time, hours int) *model.Assignment {
	return &model.Assignment{
		EmployeeProfileID: employeeID,
		StartAt:           start,
		EndAt:             start.Add(time.Duration(hours) * time.Hour),
		Status:            model.AssignmentPlanned,
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 排他约束
// ═══════════════════════════════════════════════════════════

func TestAssignment_NoOverlapConstraint(t *testing.T) {
	emp, cleanup := setupEmployee(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	start := time.Date(2030, 5, 6, 9, 0, 0, 0, time.UTC)

	first := newAssignment(emp.ProfileID, start, 8)
	if err := repo.Assignment.Create(ctx, first); err != nil {
		t.Fatalf("创建排班失败: %v", err)
	}

	overlap := newAssignment(emp.ProfileID, start.Add(4*time.Hour), 8)
	err := repo.Assignment.Create(ctx, overlap)
	if err == nil {
		t.Fatal("重叠的排班应被排他约束拒绝")
	}
	if !scheduling.IsDoubleBooking(err) {
		t.Errorf("错误应被识别为重复排班: %v", err)
	}

	// 首尾相接不算重叠
	adjacent := newAssignment(emp.ProfileID, start.Add(8*time.Hour), 2)
	if err := repo.Assignment.Create(ctx, adjacent); err != nil {
		t.Errorf("首尾相接的排班应允许创建: %v", err)
	}

	// 已取消的排班不占用时段
	first.Status = model.AssignmentCancelled
	if err := repo.Assignment.Update(ctx, first); err != nil {
		t.Fatalf("取消排班失败: %v", err)
	}
	if err := repo.Assignment.Create(ctx, newAssignment(emp.ProfileID, start.Add(time.Hour), 2)); err != nil {
		t.Errorf("与已取消排班重叠应允许创建: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 乐观锁
// ═══════════════════════════════════════════════════════════

func TestAssignment_OptimisticLock(t *testing.T) {
	emp, cleanup := setupEmployee(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	a := newAssignment(emp.ProfileID, time.Date(2030, 6, 3, 9, 0, 0, 0, time.UTC), 4)
	if err := repo.Assignment.Create(ctx, a); err != nil {
		t.Fatalf("创建排班失败: %v", err)
	}

	stale, _ := repo.Assignment.GetByID(ctx, a.AssignmentID)

	a.Details = "第一次修改"
	if err := repo.Assignment.Update(ctx, a); err != nil {
		t.Fatalf("第一次更新失败: %v", err)
	}

	stale.Details = "基于旧版本的修改"
	if err := repo.Assignment.Update(ctx, stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 重复组
// ═══════════════════════════════════════════════════════════

func TestAssignment_RecurrenceGroup(t *testing.T) {
	emp, cleanup := setupEmployee(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	group := "7d7c3c1e-1b2a-4f3e-9d8c-0a1b2c3d4e5f"
	base := time.Date(2030, 7, 1, 9, 0, 0, 0, time.UTC)
	starts := []time.Time{base}
	for _, occ := range scheduling.Expand(base, base.Add(3*time.Hour), scheduling.NormalizeRepeat(2, nil)) {
		starts = append(starts, occ.StartAt)
	}
	for _, start := range starts {
		a := newAssignment(emp.ProfileID, start, 3)
		a.RecurrenceGroupID = &group
		if err := repo.Assignment.Create(ctx, a); err != nil {
			t.Fatalf("创建重复排班失败: %v", err)
		}
	}

	items, err := repo.Assignment.ListByRecurrenceGroup(ctx, group)
	if err != nil || len(items) != 3 {
		t.Fatalf("重复组应有 3 条排班: n=%d err=%v", len(items), err)
	}

	n, err := repo.Assignment.DeleteByRecurrenceGroup(ctx, group)
	if err != nil || n != 3 {
		t.Errorf("整组删除应删除 3 条: n=%d err=%v", n, err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 打卡过程
// ═══════════════════════════════════════════════════════════

func TestAttendance_PunchProcedure(t *testing.T) {
	emp, cleanup := setupEmployee(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 排班覆盖当前时刻，签到窗口已开放
	a := newAssignment(emp.ProfileID, time.Now().Add(-time.Hour), 4)
	if err := repo.Assignment.Create(ctx, a); err != nil {
		t.Fatalf("创建排班失败: %v", err)
	}

	if _, err := repo.Attendance.Punch(ctx, repository.PunchParams{AssignmentID: a.AssignmentID, Action: "OUT"}); err == nil {
		t.Error("未签到时签退应被拒绝")
	}

	att, err := repo.Attendance.Punch(ctx, repository.PunchParams{AssignmentID: a.AssignmentID, Action: "IN"})
	if err != nil {
		t.Fatalf("签到失败: %v", err)
	}
	if att.CheckInAt == nil {
		t.Error("签到后 check_in_at 不应为空")
	}

	if _, err := repo.Attendance.Punch(ctx, repository.PunchParams{AssignmentID: a.AssignmentID, Action: "IN"}); err == nil {
		t.Error("重复签到应被拒绝")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 存储清理任务
// ═══════════════════════════════════════════════════════════

func TestStorageTask_Lifecycle(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	task := &model.StorageCleanupTask{ObjectKey: fmt.Sprintf("work-photos/test/%d.jpg", time.Now().UnixNano())}
	if err := repo.StorageTask.Create(ctx, task); err != nil {
		t.Fatalf("创建清理任务失败: %v", err)
	}
	defer testDB.Where("task_id = ?", task.TaskID).Delete(&model.StorageCleanupTask{})

	if err := repo.StorageTask.RecordFailure(ctx, task.TaskID, "timeout", false); err != nil {
		t.Fatalf("记录失败次数出错: %v", err)
	}
	if err := repo.StorageTask.MarkDone(ctx, task.TaskID); err != nil {
		t.Fatalf("标记完成失败: %v", err)
	}

	pending, err := repo.StorageTask.ListPending(ctx, 100)
	if err != nil {
		t.Fatalf("查询待处理任务失败: %v", err)
	}
	for _, p := range pending {
		if p.TaskID == task.TaskID {
			t.Error("已完成的任务不应出现在待处理列表中")
		}
	}
}
