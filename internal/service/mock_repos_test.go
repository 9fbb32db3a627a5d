package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"flowdesks/backend/config"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/photo"
	"flowdesks/backend/internal/repository"
	pkgerrors "flowdesks/backend/pkg/errors"
)

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, p *model.Profile) error {
	if p.ProfileID == "" {
		p.ProfileID = fmt.Sprintf("profile-%d", len(m.profiles)+1)
	}
	if p.Version == 0 {
		p.Version = 1
	}
	m.profiles[p.ProfileID] = p
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Update(_ context.Context, p *model.Profile) error {
	old, ok := m.profiles[p.ProfileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if old.Version != p.Version {
		return pkgerrors.ErrOptimisticLock
	}
	p.Version++
	m.profiles[p.ProfileID] = p
	return nil
}

func (m *mockProfileRepo) SaveEmployee(_ context.Context, e *model.Employee) error {
	if p, ok := m.profiles[e.ProfileID]; ok {
		p.Employee = e
	}
	return nil
}

func (m *mockProfileRepo) List(_ context.Context, filter repository.ProfileFilter, offset, limit int) ([]model.Profile, int64, error) {
	var out []model.Profile
	for _, p := range m.profiles {
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if !filter.IncludeInactive && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

// ── Mock LocationRepository / ActivityTypeRepository ──

type mockLocationRepo struct {
	locations map[string]*model.Location
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		loc.LocationID = fmt.Sprintf("loc-%d", len(m.locations)+1)
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, includeInactive bool) ([]model.Location, error) {
	var out []model.Location
	for _, l := range m.locations {
		if includeInactive || l.IsActive {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	if _, ok := m.locations[loc.LocationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.locations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.locations, id)
	return nil
}

type mockActivityTypeRepo struct {
	types map[string]*model.ActivityType
}

func newMockActivityTypeRepo() *mockActivityTypeRepo {
	return &mockActivityTypeRepo{types: make(map[string]*model.ActivityType)}
}

func (m *mockActivityTypeRepo) Create(_ context.Context, at *model.ActivityType) error {
	if at.ActivityTypeID == "" {
		at.ActivityTypeID = fmt.Sprintf("act-%d", len(m.types)+1)
	}
	m.types[at.ActivityTypeID] = at
	return nil
}

func (m *mockActivityTypeRepo) GetByID(_ context.Context, id string) (*model.ActivityType, error) {
	if at, ok := m.types[id]; ok {
		return at, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityTypeRepo) List(_ context.Context, includeInactive bool) ([]model.ActivityType, error) {
	var out []model.ActivityType
	for _, at := range m.types {
		if includeInactive || at.IsActive {
			out = append(out, *at)
		}
	}
	return out, nil
}

func (m *mockActivityTypeRepo) Update(_ context.Context, at *model.ActivityType) error {
	m.types[at.ActivityTypeID] = at
	return nil
}

func (m *mockActivityTypeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.types, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	items map[string]*model.Assignment
	seq   int

	createErr  func(a *model.Assignment) error // 返回非 nil 时拒绝写入
	listErr    error
	creates    int
	seriesUpds int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{items: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	m.creates++
	if m.createErr != nil {
		if err := m.createErr(a); err != nil {
			return err
		}
	}
	if a.AssignmentID == "" {
		m.seq++
		a.AssignmentID = fmt.Sprintf("asg-%d", m.seq)
	}
	if a.Version == 0 {
		a.Version = 1
	}
	cp := *a
	m.items[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.Assignment) error {
	old, ok := m.items[a.AssignmentID]
	if !ok || old.Version != a.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cp := *a
	cp.Version++
	m.items[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) UpdateDates(_ context.Context, id string, startAt, endAt time.Time, _ string) error {
	a, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.StartAt, a.EndAt = startAt, endAt
	a.Version++
	return nil
}

func (m *mockAssignmentRepo) UpdateByRecurrenceGroup(_ context.Context, groupID string, p repository.SeriesPatch) (int64, error) {
	m.seriesUpds++
	var n int64
	for _, a := range m.items {
		if a.RecurrenceGroupID == nil || *a.RecurrenceGroupID != groupID {
			continue
		}
		a.EmployeeProfileID = p.EmployeeProfileID
		a.LocationID = p.LocationID
		a.ActivityTypeID = p.ActivityTypeID
		a.Details = p.Details
		a.Status = p.Status
		a.QtyOfHourDays, a.HourlyRate, a.DailyRate = p.QtyOfHourDays, p.HourlyRate, p.DailyRate
		a.FixedWage, a.Expenses, a.Extras, a.Deductions = p.FixedWage, p.Expenses, p.Extras, p.Deductions
		a.TotalAmount = p.TotalAmount
		a.EstablishmentName = p.EstablishmentName
		a.Version++
		n++
	}
	return n, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockAssignmentRepo) DeleteByRecurrenceGroup(_ context.Context, groupID string) (int64, error) {
	var n int64
	for id, a := range m.items {
		if a.RecurrenceGroupID != nil && *a.RecurrenceGroupID == groupID {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) ListByRange(_ context.Context, f repository.AssignmentFilter) ([]model.Assignment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Assignment
	for _, a := range m.items {
		if !a.StartAt.Before(f.End) || !a.EndAt.After(f.Start) {
			continue
		}
		if f.EmployeeID != "" && a.EmployeeProfileID != f.EmployeeID {
			continue
		}
		if f.LocationID != "" && (a.LocationID == nil || *a.LocationID != f.LocationID) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (m *mockAssignmentRepo) ListByRecurrenceGroup(_ context.Context, groupID string) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range m.items {
		if a.RecurrenceGroupID != nil && *a.RecurrenceGroupID == groupID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// group 返回组内全部排班（按开始时间排序）
func (m *mockAssignmentRepo) group(groupID string) []model.Assignment {
	out, _ := m.ListByRecurrenceGroup(context.Background(), groupID)
	return out
}

// ── Mock ReassignmentRepository ──

type mockReassignmentRepo struct {
	assignments *mockAssignmentRepo
	logs        []model.ReassignmentLog
	err         error
}

func (m *mockReassignmentRepo) Reassign(_ context.Context, assignmentID, toEmployeeID, reason, doneBy string) (*model.ReassignmentLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.assignments.items[assignmentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	log := model.ReassignmentLog{
		ReassignmentLogID:     fmt.Sprintf("log-%d", len(m.logs)+1),
		AssignmentID:          assignmentID,
		FromEmployeeProfileID: a.EmployeeProfileID,
		ToEmployeeProfileID:   toEmployeeID,
		Reason:                reason,
		DoneBy:                doneBy,
		CreatedAt:             time.Now(),
	}
	a.EmployeeProfileID = toEmployeeID
	m.logs = append(m.logs, log)
	return &log, nil
}

func (m *mockReassignmentRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.ReassignmentLog, error) {
	var out []model.ReassignmentLog
	for _, l := range m.logs {
		if l.AssignmentID == assignmentID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records  map[string]*model.AssignmentAttendance
	punchErr error
	punches  int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AssignmentAttendance)}
}

func (m *mockAttendanceRepo) GetByAssignment(_ context.Context, assignmentID string) (*model.AssignmentAttendance, error) {
	if r, ok := m.records[assignmentID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Punch(_ context.Context, p repository.PunchParams) (*model.AssignmentAttendance, error) {
	m.punches++
	if m.punchErr != nil {
		return nil, m.punchErr
	}
	r, ok := m.records[p.AssignmentID]
	if !ok {
		r = &model.AssignmentAttendance{AssignmentID: p.AssignmentID}
		m.records[p.AssignmentID] = r
	}
	now := time.Now()
	if p.Action == "IN" {
		r.CheckInAt = &now
		r.BeforePhotoURL = p.PhotoURL
		r.Status = model.AttendanceCheckedIn
	} else {
		r.CheckOutAt = &now
		r.AfterPhotoURL = p.PhotoURL
		r.Status = model.AttendanceDone
		r.Done = true
	}
	return r, nil
}

// ── Mock WorkPhotoRepository ──

type mockWorkPhotoRepo struct {
	mu        sync.Mutex
	photos    map[string]*model.AssignmentWorkPhoto
	createErr error
}

func newMockWorkPhotoRepo() *mockWorkPhotoRepo {
	return &mockWorkPhotoRepo{photos: make(map[string]*model.AssignmentWorkPhoto)}
}

func (m *mockWorkPhotoRepo) Create(_ context.Context, p *model.AssignmentWorkPhoto) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if p.WorkPhotoID == "" {
		p.WorkPhotoID = fmt.Sprintf("photo-%d", len(m.photos)+1)
	}
	m.photos[p.WorkPhotoID] = p
	return nil
}

func (m *mockWorkPhotoRepo) GetByID(_ context.Context, id string) (*model.AssignmentWorkPhoto, error) {
	if p, ok := m.photos[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkPhotoRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.AssignmentWorkPhoto, error) {
	var out []model.AssignmentWorkPhoto
	for _, p := range m.photos {
		if p.AssignmentID == assignmentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockWorkPhotoRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.photos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.photos, id)
	return nil
}

// ── Mock AttendanceRequestRepository ──

type mockAttendanceRequestRepo struct {
	requests  map[string]*model.AttendanceAdjustmentRequest
	reviewErr error
}

func newMockAttendanceRequestRepo() *mockAttendanceRequestRepo {
	return &mockAttendanceRequestRepo{requests: make(map[string]*model.AttendanceAdjustmentRequest)}
}

func (m *mockAttendanceRequestRepo) Create(_ context.Context, r *model.AttendanceAdjustmentRequest) error {
	if r.RequestID == "" {
		r.RequestID = fmt.Sprintf("req-%d", len(m.requests)+1)
	}
	m.requests[r.RequestID] = r
	return nil
}

func (m *mockAttendanceRequestRepo) GetByID(_ context.Context, id string) (*model.AttendanceAdjustmentRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRequestRepo) ListPending(_ context.Context, _, _ int) ([]model.AttendanceAdjustmentRequest, int64, error) {
	var out []model.AttendanceAdjustmentRequest
	for _, r := range m.requests {
		if r.Status == model.RequestPending {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockAttendanceRequestRepo) ListByEmployee(_ context.Context, employeeID string, _, _ int) ([]model.AttendanceAdjustmentRequest, int64, error) {
	var out []model.AttendanceAdjustmentRequest
	for _, r := range m.requests {
		if r.EmployeeProfileID == employeeID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockAttendanceRequestRepo) Review(_ context.Context, id string, approve bool, note *string, reviewerID string) (*model.AttendanceAdjustmentRequest, error) {
	if m.reviewErr != nil {
		return nil, m.reviewErr
	}
	r, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.Status = model.RequestRejected
	if approve {
		r.Status = model.RequestApproved
	}
	now := time.Now()
	r.ReviewNote, r.ReviewedBy, r.ReviewedAt = note, &reviewerID, &now
	return r, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	items []*model.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		n.NotificationID = fmt.Sprintf("ntf-%d", len(m.items)+1)
	}
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range m.items {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range m.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for _, n := range m.items {
		if n.NotificationID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var cnt int64
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			cnt++
		}
	}
	return cnt, nil
}

func (m *mockNotificationRepo) forUser(userID string) []*model.Notification {
	var out []*model.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// ── Mock StorageTaskRepository ──

type mockStorageTaskRepo struct {
	mu    sync.Mutex
	tasks []*model.StorageCleanupTask
}

func (m *mockStorageTaskRepo) Create(_ context.Context, t *model.StorageCleanupTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.TaskID == "" {
		t.TaskID = fmt.Sprintf("task-%d", len(m.tasks)+1)
	}
	if t.Status == "" {
		t.Status = model.CleanupPending
	}
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *mockStorageTaskRepo) ListPending(_ context.Context, limit int) ([]model.StorageCleanupTask, error) {
	var out []model.StorageCleanupTask
	for _, t := range m.tasks {
		if t.Status == model.CleanupPending && len(out) < limit {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockStorageTaskRepo) MarkDone(_ context.Context, id string) error {
	for _, t := range m.tasks {
		if t.TaskID == id {
			t.Status = model.CleanupDone
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockStorageTaskRepo) RecordFailure(_ context.Context, id string, lastErr string, giveUp bool) error {
	for _, t := range m.tasks {
		if t.TaskID == id {
			t.Attempts++
			t.LastError = lastErr
			if giveUp {
				t.Status = model.CleanupFailed
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockStorageTaskRepo) keys() []string {
	var out []string
	for _, t := range m.tasks {
		out = append(out, t.ObjectKey)
	}
	sort.Strings(out)
	return out
}

// ── 基础设施替身 ──

type fakePinger struct{ err error }

func (p *fakePinger) Ping(context.Context) error { return p.err }

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

type fakeBus struct {
	published map[string][]interface{}
}

func newFakeBus() *fakeBus { return &fakeBus{published: make(map[string][]interface{})} }

func (b *fakeBus) Publish(_ context.Context, channel string, value interface{}) error {
	b.published[channel] = append(b.published[channel], value)
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context, _ string, _ func([]byte)) error {
	<-ctx.Done()
	return nil
}

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	removeErr error
	removed   []string
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: make(map[string][]byte)} }

func (s *fakeStorage) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://bucket.example.com/" + key
}

func (s *fakeStorage) Remove(_ context.Context, keys ...string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.objects, k)
		s.removed = append(s.removed, k)
	}
	return nil
}

// fakeAnnotator 在数据前加前缀，标记已处理
type fakeAnnotator struct{ err error }

func (a *fakeAnnotator) Annotate(data []byte, _ string, _ photo.CaptureMetadata) (*photo.Result, error) {
	if a.err != nil {
		return nil, a.err
	}
	out := append([]byte("stamped:"), data...)
	return &photo.Result{Data: out, ContentType: "image/jpeg", Ext: "jpg", Annotated: true}, nil
}

// ── 测试环境 ──

type testEnv struct {
	repo          *repository.Repository
	profiles      *mockProfileRepo
	locations     *mockLocationRepo
	activityTypes *mockActivityTypeRepo
	assignments   *mockAssignmentRepo
	reassignments *mockReassignmentRepo
	attendance    *mockAttendanceRepo
	photos        *mockWorkPhotoRepo
	requests      *mockAttendanceRequestRepo
	notifications *mockNotificationRepo
	tasks         *mockStorageTaskRepo

	pinger  *fakePinger
	cache   *fakeCache
	bus     *fakeBus
	storage *fakeStorage
	logger  *zap.Logger
}

func newTestEnv() *testEnv {
	env := &testEnv{
		profiles:      newMockProfileRepo(),
		locations:     newMockLocationRepo(),
		activityTypes: newMockActivityTypeRepo(),
		assignments:   newMockAssignmentRepo(),
		attendance:    newMockAttendanceRepo(),
		photos:        newMockWorkPhotoRepo(),
		requests:      newMockAttendanceRequestRepo(),
		notifications: &mockNotificationRepo{},
		tasks:         &mockStorageTaskRepo{},
		pinger:        &fakePinger{},
		cache:         newFakeCache(),
		bus:           newFakeBus(),
		storage:       newFakeStorage(),
		logger:        zap.NewNop(),
	}
	env.reassignments = &mockReassignmentRepo{assignments: env.assignments}
	env.repo = &repository.Repository{
		Profile:           env.profiles,
		Location:          env.locations,
		ActivityType:      env.activityTypes,
		Assignment:        env.assignments,
		Reassignment:      env.reassignments,
		Attendance:        env.attendance,
		WorkPhoto:         env.photos,
		AttendanceRequest: env.requests,
		Notification:      env.notifications,
		StorageTask:       env.tasks,
	}
	return env
}

func (env *testEnv) addEmployee(id, name string) *model.Profile {
	p := &model.Profile{ProfileID: id, FullName: name, Email: id + "@example.com", Role: model.RoleCollaborator, IsActive: true}
	p.Version = 1
	env.profiles.profiles[id] = p
	return p
}

func (env *testEnv) notificationService() NotificationService {
	return NewNotificationService(env.repo, env.bus, env.logger)
}

func (env *testEnv) assignmentService(now time.Time) *assignmentService {
	cfg := &config.ScheduleConfig{OperationalTimezone: "UTC", SnapshotTTL: time.Hour}
	svc := NewAssignmentService(env.repo, env.pinger, env.cache, env.notificationService(), cfg, env.logger).(*assignmentService)
	svc.now = func() time.Time { return now }
	ids := 0
	svc.newID = func() string {
		ids++
		return fmt.Sprintf("group-%d", ids)
	}
	return svc
}
