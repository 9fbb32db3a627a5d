package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
	"flowdesks/backend/internal/scheduling"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// CSV 使用分号分隔，并以 UTF-8 BOM 开头以便表格软件识别编码
const (
	csvSeparator = ';'
	utf8BOM      = "\xEF\xBB\xBF"
)

var paylistHeader = []string{
	"日期", "员工", "地点", "作业类型", "开始", "结束", "状态",
	"数量", "时薪", "日薪", "固定工资", "费用", "加项", "扣款", "合计",
}

// ExportService 工资单导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写出。
// 已取消的排班不计入工资单。
type ExportService interface {
	PaylistXLSX(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error)
	PaylistCSV(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	tz     *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, tz *time.Location, logger *zap.Logger) ExportService {
	if tz == nil {
		tz = time.UTC
	}
	return &exportService{repo: repo, tz: tz, logger: logger}
}

// paylistRow 工资单中的一行
type paylistRow struct {
	date, employee, location, activity string
	start, end, status                 string
	wage                               scheduling.WageBreakdown
	total                              float64
}

func (r paylistRow) cells() []interface{} {
	return []interface{}{
		r.date, r.employee, r.location, r.activity, r.start, r.end, r.status,
		r.wage.Quantity, r.wage.HourlyRate, r.wage.DailyRate, r.wage.FixedWage,
		r.wage.Expenses, r.wage.Extras, r.wage.Deductions, r.total,
	}
}

func (s *exportService) rows(ctx context.Context, req *dto.ExportRequest) ([]paylistRow, error) {
	if !req.Valid() {
		return nil, ErrInvalidTimeRange
	}
	items, err := s.repo.Assignment.ListByRange(ctx, repository.AssignmentFilter{
		Start:      req.Start,
		End:        req.End,
		EmployeeID: req.EmployeeID,
		LocationID: req.LocationID,
	})
	if err != nil {
		s.logger.Error("查询导出排班失败", zap.Error(err))
		return nil, err
	}

	rows := make([]paylistRow, 0, len(items))
	for i := range items {
		a := &items[i]
		if a.Status == model.AssignmentCancelled {
			continue
		}
		wage := scheduling.WageBreakdown{
			Quantity:   a.QtyOfHourDays,
			HourlyRate: a.HourlyRate,
			DailyRate:  a.DailyRate,
			FixedWage:  a.FixedWage,
			Expenses:   a.Expenses,
			Extras:     a.Extras,
			Deductions: a.Deductions,
		}
		total := scheduling.TotalAmount(wage)
		if a.TotalAmount != nil {
			total = *a.TotalAmount
		}

		row := paylistRow{
			date:     a.StartAt.In(s.tz).Format("2006-01-02"),
			location: a.EstablishmentName,
			start:    a.StartAt.In(s.tz).Format("15:04"),
			end:      a.EndAt.In(s.tz).Format("15:04"),
			status:   a.Status,
			wage:     wage,
			total:    total,
		}
		if a.Employee != nil {
			row.employee = a.Employee.FullName
		}
		if row.location == "" && a.Location != nil {
			row.location = a.Location.Name
		}
		if a.ActivityType != nil {
			row.activity = a.ActivityType.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ────────────────────── XLSX ──────────────────────

func (s *exportService) PaylistXLSX(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	rows, err := s.rows(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "工资单"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00

	for i, h := range paylistHeader {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, c, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(paylistHeader))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "D", 20)
	f.SetColWidth(sheet, "E", lastCol, 10)

	var sum float64
	for r, row := range rows {
		c, _ := excelize.CoordinatesToCellName(1, r+2)
		cells := row.cells()
		if err := f.SetSheetRow(sheet, c, &cells); err != nil {
			s.logger.Error("写入工资单行失败", zap.Int("row", r+2), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		sum += row.total
	}

	totalRow := len(rows) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "合计")
	f.SetCellValue(sheet, fmt.Sprintf("%s%d", lastCol, totalRow), scheduling.Round2(sum))
	f.SetCellStyle(sheet, fmt.Sprintf("H%d", 2), fmt.Sprintf("%s%d", lastCol, totalRow), moneyStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, s.filename(req, "xlsx"), nil
}

// ────────────────────── CSV ──────────────────────

func (s *exportService) PaylistCSV(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	rows, err := s.rows(ctx, req)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(buf)
	w.Comma = csvSeparator
	_ = w.Write(paylistHeader)
	for _, row := range rows {
		record := []string{row.date, row.employee, row.location, row.activity, row.start, row.end, row.status}
		for _, v := range []float64{
			row.wage.Quantity, row.wage.HourlyRate, row.wage.DailyRate, row.wage.FixedWage,
			row.wage.Expenses, row.wage.Extras, row.wage.Deductions, row.total,
		} {
			record = append(record, strconv.FormatFloat(v, 'f', 2, 64))
		}
		_ = w.Write(record)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("写入 CSV 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, s.filename(req, "csv"), nil
}

func (s *exportService) filename(req *dto.ExportRequest, ext string) string {
	return fmt.Sprintf("paylist_%s_%s.%s",
		req.Start.In(s.tz).Format("20060102"),
		req.End.In(s.tz).Format("20060102"),
		ext,
	)
}
