package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"flowdesks/backend/config"
	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
	"flowdesks/backend/internal/scheduling"
	pkgerrors "flowdesks/backend/pkg/errors"
)

// ── 排班模块业务错误 ──

var (
	ErrAssignmentNotFound   = errors.New("排班不存在")
	ErrAssignmentForbidden  = errors.New("无权访问该排班")
	ErrInvalidTimeRange     = errors.New("结束时间必须晚于开始时间")
	ErrScopeRequired        = errors.New("该排班属于重复组，请选择仅本条或整组")
	ErrSameEmployee         = errors.New("排班已属于该员工，无需转派")
	ErrEmployeeNotFound     = errors.New("员工不存在或已停用")
	ErrActivityTypeNotFound = errors.New("作业类型不存在")
)

const snapshotKeyPrefix = "calendar:last-assignments:"

// AssignmentService 排班业务接口
//
// Save / Delete 对重复组内的排班强制要求显式的 scope：
//   - single：只改（删）本条，组 ID 保留
//   - series：按组 ID 一次性改写共享字段（各条 start/end 不变）或整组删除
//
// 多条写入之间没有跨记录事务：中途失败时立即返回错误，已写入的记录不回滚，
// 调用方需要重新查询以确认实际状态。
type AssignmentService interface {
	Save(ctx context.Context, req *dto.SaveAssignmentRequest, callerID string) (*dto.SaveAssignmentResponse, error)
	Get(ctx context.Context, id, callerID, role string) (*dto.AssignmentResponse, error)
	ListByRange(ctx context.Context, req *dto.AssignmentListRequest, callerID, role string) (*dto.AssignmentListResponse, error)
	UpdateDates(ctx context.Context, id string, req *dto.UpdateDatesRequest, callerID string) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id, scope, callerID string) (*dto.DeleteAssignmentResponse, error)
	Reassign(ctx context.Context, id string, req *dto.ReassignRequest, callerID string) (*dto.ReassignmentLogResponse, error)
	ListReassignments(ctx context.Context, id string) ([]dto.ReassignmentLogResponse, error)
}

type assignmentService struct {
	repo         *repository.Repository
	pinger       Pinger
	cache        SnapshotCache
	notification NotificationService
	tz           *time.Location
	snapshotTTL  time.Duration
	logger       *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewAssignmentService 创建 AssignmentService 实例；cache 为 nil 时不提供离线快照
func NewAssignmentService(
	repo *repository.Repository,
	pinger Pinger,
	cache SnapshotCache,
	notification NotificationService,
	cfg *config.ScheduleConfig,
	logger *zap.Logger,
) AssignmentService {
	ttl := cfg.SnapshotTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &assignmentService{
		repo:         repo,
		pinger:       pinger,
		cache:        cache,
		notification: notification,
		tz:           cfg.Location(),
		snapshotTTL:  ttl,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// ────────────────────── Save ──────────────────────

func (s *assignmentService) Save(ctx context.Context, req *dto.SaveAssignmentRequest, callerID string) (*dto.SaveAssignmentResponse, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, ErrInvalidTimeRange
	}
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return nil, err
	}

	if err := s.checkEmployee(ctx, req.EmployeeProfileID); err != nil {
		return nil, err
	}
	if err := s.checkActivityType(ctx, req.ActivityTypeID); err != nil {
		return nil, err
	}
	loc, err := s.lookupLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	if req.IsCreate() {
		return s.create(ctx, req, loc, callerID)
	}
	return s.edit(ctx, req, loc, callerID)
}

// create 先写基础排班（确立组 ID），再依次写入派生排班
func (s *assignmentService) create(ctx context.Context, req *dto.SaveAssignmentRequest, loc *model.Location, callerID string) (*dto.SaveAssignmentResponse, error) {
	repeat := scheduling.NormalizeRepeat(req.RepeatCount, req.RepeatIntervalDays)
	groupID := scheduling.ResolveGroupID(true, req.RecurrenceGroupID, repeat.Count, s.newID)

	base := &model.Assignment{}
	applySaveRequest(base, req, loc)
	base.StartAt = req.StartAt
	base.EndAt = req.EndAt
	base.RecurrenceGroupID = groupID
	base.StampCreated(callerID)

	if err := s.repo.Assignment.Create(ctx, base); err != nil {
		s.logger.Error("创建排班失败", zap.String("employee_id", base.EmployeeProfileID), zap.Error(err))
		return nil, scheduling.ClassifyWriteError(err, conflictTarget(base))
	}

	created := 0
	for _, occ := range scheduling.Expand(req.StartAt, req.EndAt, repeat) {
		a := &model.Assignment{}
		applySaveRequest(a, req, loc)
		a.StartAt = occ.StartAt
		a.EndAt = occ.EndAt
		a.RecurrenceGroupID = groupID
		a.StampCreated(callerID)

		if err := s.repo.Assignment.Create(ctx, a); err != nil {
			s.logger.Error("创建重复排班失败，已写入的排班不回滚",
				zap.Stringp("group_id", groupID),
				zap.Int("index", occ.Index),
				zap.Int("created", created),
				zap.Error(err),
			)
			return nil, scheduling.ClassifyWriteError(err, conflictTarget(a))
		}
		created++
	}

	s.logger.Info("排班已创建",
		zap.String("assignment_id", base.AssignmentID),
		zap.Int("created_repeats", created),
	)

	return &dto.SaveAssignmentResponse{
		Assignment:     s.toAssignmentResponse(base),
		CreatedRepeats: created,
	}, nil
}

func (s *assignmentService) edit(ctx context.Context, req *dto.SaveAssignmentRequest, loc *model.Location, callerID string) (*dto.SaveAssignmentResponse, error) {
	existing, err := s.getAssignment(ctx, *req.AssignmentID)
	if err != nil {
		return nil, err
	}

	grouped := existing.RecurrenceGroupID != nil && *existing.RecurrenceGroupID != ""
	if grouped && req.Scope == "" {
		return nil, ErrScopeRequired
	}
	if req.Version > 0 && req.Version != existing.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if grouped && req.Scope == dto.ScopeSeries {
		return s.editSeries(ctx, existing, req, loc, callerID)
	}

	// 单条：写回完整字段（含本条 start/end），组 ID 保留
	groupID := existing.RecurrenceGroupID
	if !grouped {
		groupID = scheduling.ResolveGroupID(false, req.RecurrenceGroupID, 0, s.newID)
	}
	applySaveRequest(existing, req, loc)
	existing.StartAt = req.StartAt
	existing.EndAt = req.EndAt
	existing.RecurrenceGroupID = groupID
	existing.StampUpdated(callerID)

	if err := s.repo.Assignment.Update(ctx, existing); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新排班失败", zap.String("assignment_id", existing.AssignmentID), zap.Error(err))
		return nil, scheduling.ClassifyWriteError(err, conflictTarget(existing))
	}

	return &dto.SaveAssignmentResponse{Assignment: s.toAssignmentResponse(existing)}, nil
}

// editSeries 一条 UPDATE 改写整组的非时间字段
func (s *assignmentService) editSeries(ctx context.Context, target *model.Assignment, req *dto.SaveAssignmentRequest, loc *model.Location, callerID string) (*dto.SaveAssignmentResponse, error) {
	var patched model.Assignment
	applySaveRequest(&patched, req, loc)

	patch := repository.SeriesPatch{
		EmployeeProfileID:  patched.EmployeeProfileID,
		LocationID:         patched.LocationID,
		ActivityTypeID:     patched.ActivityTypeID,
		Details:            patched.Details,
		Status:             patched.Status,
		QtyOfHourDays:      patched.QtyOfHourDays,
		HourlyRate:         patched.HourlyRate,
		DailyRate:          patched.DailyRate,
		FixedWage:          patched.FixedWage,
		Expenses:           patched.Expenses,
		Extras:             patched.Extras,
		Deductions:         patched.Deductions,
		TotalAmount:        patched.TotalAmount,
		EstablishmentName:  patched.EstablishmentName,
		AssignmentAddress:  patched.AssignmentAddress,
		AssignmentLocation: patched.AssignmentLocation,
		AssignmentState:    patched.AssignmentState,
		UpdatedBy:          callerID,
	}

	groupID := *target.RecurrenceGroupID
	n, err := s.repo.Assignment.UpdateByRecurrenceGroup(ctx, groupID, patch)
	if err != nil {
		s.logger.Error("整组更新排班失败", zap.String("group_id", groupID), zap.Error(err))
		ct := conflictTarget(target)
		ct.EmployeeID = patch.EmployeeProfileID
		return nil, scheduling.ClassifyWriteError(err, ct)
	}

	updated, err := s.getAssignment(ctx, target.AssignmentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("整组排班已更新", zap.String("group_id", groupID), zap.Int64("affected", n))

	return &dto.SaveAssignmentResponse{
		Assignment:    s.toAssignmentResponse(updated),
		SeriesUpdated: n,
	}, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *assignmentService) Get(ctx context.Context, id, callerID, role string) (*dto.AssignmentResponse, error) {
	a, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.IsAdminRole(role) && a.EmployeeProfileID != callerID {
		return nil, ErrAssignmentForbidden
	}
	resp := s.toAssignmentResponse(a)
	return &resp, nil
}

// calendarSnapshot 最近一次成功查询的结果
type calendarSnapshot struct {
	Items     []dto.AssignmentResponse `json:"items"`
	FetchedAt time.Time                `json:"fetched_at"`
}

// ListByRange 查询区间内的排班。协作者只能看到自己的排班。
// 数据库不可达时返回最近一次成功查询的快照（stale=true）。
func (s *assignmentService) ListByRange(ctx context.Context, req *dto.AssignmentListRequest, callerID, role string) (*dto.AssignmentListResponse, error) {
	if !req.Valid() {
		return nil, ErrInvalidTimeRange
	}

	filter := repository.AssignmentFilter{
		Start:          req.Start,
		End:            req.End,
		EmployeeID:     req.EmployeeID,
		LocationID:     req.LocationID,
		ActivityTypeID: req.ActivityTypeID,
		Status:         req.Status,
	}
	if !model.IsAdminRole(role) {
		filter.EmployeeID = callerID
	}

	items, err := s.repo.Assignment.ListByRange(ctx, filter)
	if err != nil {
		if snap, ok := s.loadSnapshot(ctx, callerID, err); ok {
			return snap, nil
		}
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.AssignmentResponse, 0, len(items))
	for i := range items {
		list = append(list, s.toAssignmentResponse(&items[i]))
	}

	now := s.now()
	s.saveSnapshot(ctx, callerID, calendarSnapshot{Items: list, FetchedAt: now})

	return &dto.AssignmentListResponse{
		List:      list,
		FetchedAt: formatTime(now),
	}, nil
}

func (s *assignmentService) saveSnapshot(ctx context.Context, userID string, snap calendarSnapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, snapshotKeyPrefix+userID, snap, s.snapshotTTL); err != nil {
		s.logger.Warn("写入离线快照失败", zap.String("user_id", userID), zap.Error(err))
	}
}

// loadSnapshot 仅在数据库确实不可达时使用快照；日期分组按当前时间重新计算
func (s *assignmentService) loadSnapshot(ctx context.Context, userID string, cause error) (*dto.AssignmentListResponse, bool) {
	if s.cache == nil || s.pinger == nil || s.pinger.Ping(ctx) == nil {
		return nil, false
	}

	var snap calendarSnapshot
	if err := s.cache.GetJSON(ctx, snapshotKeyPrefix+userID, &snap); err != nil {
		return nil, false
	}

	now := s.now()
	for i := range snap.Items {
		item := &snap.Items[i]
		start, err1 := time.Parse(time.RFC3339, item.StartAt)
		end, err2 := time.Parse(time.RFC3339, item.EndAt)
		if err1 == nil && err2 == nil {
			item.DayBucket = string(scheduling.BucketRelativeToToday(start, end, s.tz, now))
		}
	}

	s.logger.Warn("数据库不可达，返回离线快照",
		zap.String("user_id", userID),
		zap.Time("fetched_at", snap.FetchedAt),
		zap.NamedError("cause", cause),
	)

	if snap.Items == nil {
		snap.Items = []dto.AssignmentResponse{}
	}
	return &dto.AssignmentListResponse{
		List:      snap.Items,
		Stale:     true,
		FetchedAt: formatTime(snap.FetchedAt),
	}, true
}

// ────────────────────── UpdateDates ──────────────────────

func (s *assignmentService) UpdateDates(ctx context.Context, id string, req *dto.UpdateDatesRequest, callerID string) (*dto.AssignmentResponse, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, ErrInvalidTimeRange
	}
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return nil, err
	}

	existing, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Assignment.UpdateDates(ctx, id, req.StartAt, req.EndAt, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("调整排班时间失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, scheduling.ClassifyWriteError(err, scheduling.ConflictTarget{
			EmployeeID: existing.EmployeeProfileID,
			StartAt:    req.StartAt,
			EndAt:      req.EndAt,
		})
	}

	existing.StartAt = req.StartAt
	existing.EndAt = req.EndAt
	existing.Version++
	resp := s.toAssignmentResponse(existing)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, id, scope, callerID string) (*dto.DeleteAssignmentResponse, error) {
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return nil, err
	}

	existing, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	grouped := existing.RecurrenceGroupID != nil && *existing.RecurrenceGroupID != ""
	if grouped && scope == "" {
		return nil, ErrScopeRequired
	}

	if grouped && scope == dto.ScopeSeries {
		groupID := *existing.RecurrenceGroupID
		members, err := s.repo.Assignment.ListByRecurrenceGroup(ctx, groupID)
		if err != nil {
			s.logger.Error("查询重复组失败", zap.String("group_id", groupID), zap.Error(err))
			return nil, err
		}
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.AssignmentID)
		}
		photos := s.collectPhotoKeys(ctx, ids)

		n, err := s.repo.Assignment.DeleteByRecurrenceGroup(ctx, groupID)
		if err != nil {
			s.logger.Error("整组删除排班失败", zap.String("group_id", groupID), zap.Error(err))
			return nil, err
		}
		s.queueObjectCleanup(ctx, photos, callerID)
		s.logger.Info("整组排班已删除", zap.String("group_id", groupID), zap.Int64("deleted", n), zap.String("by", callerID))
		return &dto.DeleteAssignmentResponse{Deleted: n}, nil
	}

	photos := s.collectPhotoKeys(ctx, []string{id})
	if err := s.repo.Assignment.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("删除排班失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, err
	}
	s.queueObjectCleanup(ctx, photos, callerID)
	return &dto.DeleteAssignmentResponse{Deleted: 1}, nil
}

// collectPhotoKeys 删除排班前记下其照片在对象存储中的路径（照片记录随排班级联删除）
func (s *assignmentService) collectPhotoKeys(ctx context.Context, assignmentIDs []string) []string {
	var keys []string
	for _, id := range assignmentIDs {
		photos, err := s.repo.WorkPhoto.ListByAssignment(ctx, id)
		if err != nil {
			s.logger.Warn("查询排班照片失败，对象存储文件将不会被清理", zap.String("assignment_id", id), zap.Error(err))
			continue
		}
		for _, p := range photos {
			if p.StoragePath != "" {
				keys = append(keys, p.StoragePath)
			}
		}
	}
	return keys
}

// queueObjectCleanup 把待删除的对象交给清理任务，失败只记日志
func (s *assignmentService) queueObjectCleanup(ctx context.Context, keys []string, callerID string) {
	for _, key := range keys {
		task := &model.StorageCleanupTask{ObjectKey: key, Status: model.CleanupPending}
		task.CreatedBy = &callerID
		if err := s.repo.StorageTask.Create(ctx, task); err != nil {
			s.logger.Warn("对象清理任务入队失败", zap.String("object_key", key), zap.Error(err))
		}
	}
}

// ────────────────────── Reassign ──────────────────────

func (s *assignmentService) Reassign(ctx context.Context, id string, req *dto.ReassignRequest, callerID string) (*dto.ReassignmentLogResponse, error) {
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return nil, err
	}

	existing, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.EmployeeProfileID == req.ToEmployeeProfileID {
		return nil, ErrSameEmployee
	}
	if err := s.checkEmployee(ctx, req.ToEmployeeProfileID); err != nil {
		return nil, err
	}

	log, err := s.repo.Reassignment.Reassign(ctx, id, req.ToEmployeeProfileID, req.Reason, callerID)
	if err != nil {
		switch pgHint(err) {
		case "assignment_not_found":
			return nil, ErrAssignmentNotFound
		case "same_employee":
			return nil, ErrSameEmployee
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("转派排班失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, scheduling.ClassifyWriteError(err, scheduling.ConflictTarget{
			EmployeeID: req.ToEmployeeProfileID,
			StartAt:    existing.StartAt,
			EndAt:      existing.EndAt,
		})
	}

	s.notifyReassignment(ctx, existing, log)

	resp := toReassignmentLogResponse(log)
	return &resp, nil
}

func (s *assignmentService) notifyReassignment(ctx context.Context, a *model.Assignment, log *model.ReassignmentLog) {
	if s.notification == nil {
		return
	}
	related := "assignment"
	payload := map[string]interface{}{
		"assignment_id": a.AssignmentID,
		"start_at":      formatTime(a.StartAt),
		"end_at":        formatTime(a.EndAt),
		"from":          log.FromEmployeeProfileID,
		"to":            log.ToEmployeeProfileID,
		"reason":        log.Reason,
	}
	when := a.StartAt.In(s.tz).Format("01-02 15:04")

	notes := []*model.Notification{
		{
			UserID:      log.ToEmployeeProfileID,
			Type:        model.NotificationReassigned,
			Title:       "新的排班",
			Message:     "你被安排了 " + when + " 的排班",
			RelatedType: &related,
			RelatedID:   &a.AssignmentID,
		},
		{
			UserID:      log.FromEmployeeProfileID,
			Type:        model.NotificationReassigned,
			Title:       "排班已转派",
			Message:     "你在 " + when + " 的排班已转派给其他同事",
			RelatedType: &related,
			RelatedID:   &a.AssignmentID,
		},
	}
	for _, n := range notes {
		if err := s.notification.Notify(ctx, n, payload); err != nil {
			s.logger.Warn("发送转派通知失败", zap.String("user_id", n.UserID), zap.Error(err))
		}
	}
}

func (s *assignmentService) ListReassignments(ctx context.Context, id string) ([]dto.ReassignmentLogResponse, error) {
	if _, err := s.getAssignment(ctx, id); err != nil {
		return nil, err
	}
	logs, err := s.repo.Reassignment.ListByAssignment(ctx, id)
	if err != nil {
		s.logger.Error("查询转派记录失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, err
	}
	result := make([]dto.ReassignmentLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, toReassignmentLogResponse(&logs[i]))
	}
	return result, nil
}

// ────────────────────── 辅助函数 ──────────────────────

func (s *assignmentService) getAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询排班失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) checkEmployee(ctx context.Context, profileID string) error {
	p, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	if !p.IsActive {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *assignmentService) checkActivityType(ctx context.Context, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := s.repo.ActivityType.GetByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityTypeNotFound
		}
		return err
	}
	return nil
}

// lookupLocation 取出地点用于复制快照；未指定地点时返回 nil
func (s *assignmentService) lookupLocation(ctx context.Context, id *string) (*model.Location, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	loc, err := s.repo.Location.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return loc, nil
}

// applySaveRequest 写入非时间字段：员工、地点（含快照）、作业类型、说明、工资构成、状态
func applySaveRequest(a *model.Assignment, req *dto.SaveAssignmentRequest, loc *model.Location) {
	a.EmployeeProfileID = req.EmployeeProfileID
	a.LocationID = emptyToNil(req.LocationID)
	a.ActivityTypeID = emptyToNil(req.ActivityTypeID)
	a.Details = req.Details

	a.Status = req.Status
	if a.Status == "" {
		a.Status = model.AssignmentPlanned
	}

	a.QtyOfHourDays = req.QtyOfHourDays
	a.HourlyRate = req.HourlyRate
	a.DailyRate = req.DailyRate
	a.FixedWage = req.FixedWage
	a.Expenses = req.Expenses
	a.Extras = req.Extras
	a.Deductions = req.Deductions
	total := scheduling.TotalAmount(scheduling.WageBreakdown{
		Quantity:   req.QtyOfHourDays,
		HourlyRate: req.HourlyRate,
		DailyRate:  req.DailyRate,
		FixedWage:  req.FixedWage,
		Expenses:   req.Expenses,
		Extras:     req.Extras,
		Deductions: req.Deductions,
	})
	a.TotalAmount = &total

	a.EstablishmentName, a.AssignmentAddress, a.AssignmentLocation, a.AssignmentState = "", "", "", ""
	if loc != nil {
		a.EstablishmentName = loc.Name
		a.AssignmentAddress = loc.Address
		a.AssignmentLocation = loc.MapsURL
		a.AssignmentState = loc.State
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func conflictTarget(a *model.Assignment) scheduling.ConflictTarget {
	return scheduling.ConflictTarget{EmployeeID: a.EmployeeProfileID, StartAt: a.StartAt, EndAt: a.EndAt}
}

func (s *assignmentService) toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:                 a.AssignmentID,
		EmployeeProfileID:  a.EmployeeProfileID,
		StartAt:            formatTime(a.StartAt),
		EndAt:              formatTime(a.EndAt),
		LocationID:         a.LocationID,
		ActivityTypeID:     a.ActivityTypeID,
		Details:            a.Details,
		RecurrenceGroupID:  a.RecurrenceGroupID,
		Status:             a.Status,
		TotalAmount:        a.TotalAmount,
		EstablishmentName:  a.EstablishmentName,
		AssignmentAddress:  a.AssignmentAddress,
		AssignmentLocation: a.AssignmentLocation,
		AssignmentState:    a.AssignmentState,
		DayBucket:          string(scheduling.BucketRelativeToToday(a.StartAt, a.EndAt, s.tz, s.now())),
		Version:            a.Version,
		WageFields: dto.WageFields{
			QtyOfHourDays: a.QtyOfHourDays,
			HourlyRate:    a.HourlyRate,
			DailyRate:     a.DailyRate,
			FixedWage:     a.FixedWage,
			Expenses:      a.Expenses,
			Extras:        a.Extras,
			Deductions:    a.Deductions,
		},
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	if a.Location != nil {
		resp.LocationName = a.Location.Name
	}
	if a.ActivityType != nil {
		resp.ActivityTypeName = a.ActivityType.Name
	}
	if a.Attendance != nil {
		att := toAttendanceResponse(a.Attendance)
		resp.Attendance = &att
	}
	for i := range a.WorkPhotos {
		resp.WorkPhotos = append(resp.WorkPhotos, toWorkPhotoResponse(&a.WorkPhotos[i]))
	}
	return resp
}

func toReassignmentLogResponse(l *model.ReassignmentLog) dto.ReassignmentLogResponse {
	return dto.ReassignmentLogResponse{
		ID:                    l.ReassignmentLogID,
		AssignmentID:          l.AssignmentID,
		FromEmployeeProfileID: l.FromEmployeeProfileID,
		ToEmployeeProfileID:   l.ToEmployeeProfileID,
		Reason:                l.Reason,
		DoneBy:                l.DoneBy,
		CreatedAt:             formatTime(l.CreatedAt),
	}
}
