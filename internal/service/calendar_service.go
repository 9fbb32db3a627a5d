package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
)

// 订阅日历覆盖的时间窗口（相对当前时间）
const (
	calendarLookBehind = 30 * 24 * time.Hour
	calendarLookAhead  = 180 * 24 * time.Hour
)

const calendarProductID = "-//flowdesks//assignments//ZH"

// CalendarService 个人排班 iCalendar 订阅
type CalendarService interface {
	FeedFor(ctx context.Context, userID string) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	tz     *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, tz *time.Location, logger *zap.Logger) CalendarService {
	if tz == nil {
		tz = time.UTC
	}
	return &calendarService{repo: repo, tz: tz, now: time.Now, logger: logger}
}

// FeedFor 生成用户窗口内全部排班的 VCALENDAR 文本，已取消的排班以 STATUS:CANCELLED 保留
func (s *calendarService) FeedFor(ctx context.Context, userID string) (string, error) {
	now := s.now()
	items, err := s.repo.Assignment.ListByRange(ctx, repository.AssignmentFilter{
		Start:      now.Add(-calendarLookBehind),
		End:        now.Add(calendarLookAhead),
		EmployeeID: userID,
	})
	if err != nil {
		s.logger.Error("查询日历排班失败", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("我的排班")
	cal.SetXWRTimezone(s.tz.String())

	for i := range items {
		a := &items[i]
		evt := cal.AddEvent(a.AssignmentID + "@flowdesks")
		evt.SetDtStampTime(a.UpdatedAt.UTC())
		evt.SetStartAt(a.StartAt.UTC())
		evt.SetEndAt(a.EndAt.UTC())
		evt.SetSummary(eventSummary(a))
		if loc := eventLocation(a); loc != "" {
			evt.SetLocation(loc)
		}
		if a.Details != "" {
			evt.SetDescription(a.Details)
		}
		switch a.Status {
		case model.AssignmentCancelled:
			evt.SetStatus(ics.ObjectStatusCancelled)
		case model.AssignmentConfirmed:
			evt.SetStatus(ics.ObjectStatusConfirmed)
		default:
			evt.SetStatus(ics.ObjectStatusTentative)
		}
	}

	return cal.Serialize(), nil
}

func eventSummary(a *model.Assignment) string {
	parts := make([]string, 0, 2)
	if a.ActivityType != nil && a.ActivityType.Name != "" {
		parts = append(parts, a.ActivityType.Name)
	}
	if a.EstablishmentName != "" {
		parts = append(parts, a.EstablishmentName)
	}
	if len(parts) == 0 {
		return "排班"
	}
	return strings.Join(parts, " @ ")
}

func eventLocation(a *model.Assignment) string {
	switch {
	case a.AssignmentAddress != "" && a.AssignmentState != "":
		return fmt.Sprintf("%s, %s", a.AssignmentAddress, a.AssignmentState)
	case a.AssignmentAddress != "":
		return a.AssignmentAddress
	default:
		return a.EstablishmentName
	}
}
