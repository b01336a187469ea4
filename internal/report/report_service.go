package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	reporterrors "crewtrack/internal/report/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ReportFile is a generated export ready for download.
type ReportFile struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	TimesheetCSV(ctx context.Context, month string) (ReportFile, error)
	LeaveOverviewXLSX(ctx context.Context, year int) (ReportFile, error)
	MonthlyEmployeePDF(ctx context.Context, employeeID, month string) (ReportFile, error)
}

type service struct {
	repo     Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, cacheTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &service{
		repo:     repo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		cacheTTL: cacheTTL,
		logger:   l,
	}
}

func (s *service) TimesheetCSV(ctx context.Context, month string) (ReportFile, error) {
	from, to, err := monthRange(month)
	if err != nil {
		return ReportFile{}, err
	}

	cacheKey := "reports:timesheet:" + month
	return s.cached(ctx, cacheKey, func() (ReportFile, error) {
		rows, err := s.repo.TimesheetRows(ctx, from, to)
		if err != nil {
			s.logger.Error("timesheet query failed", zap.Error(err))
			return ReportFile{}, err
		}
		if len(rows) == 0 {
			return ReportFile{}, reporterrors.ErrNoData
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"employee_number", "employee_name", "date", "clock_in", "clock_out", "hours", "project", "status", "source"})
		for _, r := range rows {
			_ = w.Write(timesheetRecord(r))
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return ReportFile{}, reporterrors.ErrGenerateFailed
		}

		return ReportFile{
			FileName:    fmt.Sprintf("timesheet_%s.csv", month),
			ContentType: contentTypeCSV,
			Data:        buf.Bytes(),
		}, nil
	})
}

func (s *service) LeaveOverviewXLSX(ctx context.Context, year int) (ReportFile, error) {
	if year < 2000 || year > 2100 {
		return ReportFile{}, reporterrors.ErrInvalidYear
	}

	cacheKey := fmt.Sprintf("reports:leave-overview:%d", year)
	return s.cached(ctx, cacheKey, func() (ReportFile, error) {
		rows, err := s.repo.LeaveOverviewRows(ctx, year)
		if err != nil {
			s.logger.Error("leave overview query failed", zap.Error(err))
			return ReportFile{}, err
		}
		if len(rows) == 0 {
			return ReportFile{}, reporterrors.ErrNoData
		}

		data, err := buildLeaveOverviewXLSX(year, rows)
		if err != nil {
			s.logger.Error("leave overview xlsx failed", zap.Error(err))
			return ReportFile{}, reporterrors.ErrGenerateFailed
		}

		return ReportFile{
			FileName:    fmt.Sprintf("leave_overview_%d.xlsx", year),
			ContentType: contentTypeXLSX,
			Data:        data,
		}, nil
	})
}

func (s *service) MonthlyEmployeePDF(ctx context.Context, employeeID, month string) (ReportFile, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return ReportFile{}, reporterrors.ErrInvalidEmployeeID
	}
	from, to, err := monthRange(month)
	if err != nil {
		return ReportFile{}, err
	}

	cacheKey := fmt.Sprintf("reports:monthly:%s:%s", employeeID, month)
	return s.cached(ctx, cacheKey, func() (ReportFile, error) {
		rows, err := s.repo.TimesheetRowsByEmployee(ctx, employeeID, from, to)
		if err != nil {
			s.logger.Error("monthly report query failed", zap.Error(err))
			return ReportFile{}, err
		}
		if len(rows) == 0 {
			return ReportFile{}, reporterrors.ErrNoData
		}

		lines := []string{
			fmt.Sprintf("Monthly time report %s", month),
			fmt.Sprintf("%s (%s)", rows[0].EmployeeName, rows[0].EmployeeNumber),
			"",
		}
		var total float64
		for _, r := range rows {
			hours := rowHours(r)
			total += hours
			project := "-"
			if r.ProjectNumber != nil {
				project = *r.ProjectNumber
			}
			lines = append(lines, fmt.Sprintf("%s  %5.2f h  %-10s %s",
				r.EntryDate.Format("2006-01-02"), hours, project, r.Status))
		}
		lines = append(lines, "", fmt.Sprintf("Total: %.2f h over %d days", total, len(rows)))

		data, err := buildSimpleTimeReportPDF(lines)
		if err != nil {
			return ReportFile{}, reporterrors.ErrGenerateFailed
		}

		return ReportFile{
			FileName:    fmt.Sprintf("time_report_%s_%s.pdf", rows[0].EmployeeNumber, month),
			ContentType: contentTypePDF,
			Data:        data,
		}, nil
	})
}

// cached serves the file from redis when possible. Generation runs under
// singleflight so a cold key is built once even under concurrent requests.
func (s *service) cached(ctx context.Context, key string, build func() (ReportFile, error)) (ReportFile, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var f ReportFile
			if json.Unmarshal([]byte(raw), &f) == nil {
				return f, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		f, err := build()
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if raw, err := json.Marshal(f); err == nil {
				s.rdb.Set(ctx, key, raw, s.cacheTTL)
			}
		}
		return f, nil
	})
	if err != nil {
		return ReportFile{}, err
	}
	return v.(ReportFile), nil
}

func buildLeaveOverviewXLSX(year int, rows []LeaveOverviewRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leave overview"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "H", 12)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Leave overview %d", year))
	_ = f.MergeCell(sheet, "A1", "H1")

	headers := []string{"Number", "Employee", "Total", "Used", "Remaining", "Pending", "Approved", "Rejected"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, r := range rows {
		rowIdx := i + 3
		values := []interface{}{
			r.EmployeeNumber,
			r.EmployeeName,
			r.TotalDays,
			r.UsedDays,
			r.TotalDays - r.UsedDays,
			r.PendingCount,
			r.ApprovedCount,
			r.RejectedCount,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowIdx)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func timesheetRecord(r TimesheetRow) []string {
	clockOut := ""
	if r.ClockOut != nil {
		clockOut = r.ClockOut.Format(time.RFC3339)
	}
	project := ""
	if r.ProjectNumber != nil {
		project = *r.ProjectNumber
	}
	return []string{
		r.EmployeeNumber,
		r.EmployeeName,
		r.EntryDate.Format("2006-01-02"),
		r.ClockIn.Format(time.RFC3339),
		clockOut,
		fmt.Sprintf("%.2f", rowHours(r)),
		project,
		r.Status,
		r.Source,
	}
}

func rowHours(r TimesheetRow) float64 {
	if r.ClockOut == nil {
		return 0
	}
	return r.ClockOut.Sub(r.ClockIn).Hours()
}

func monthRange(month string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidMonth
	}
	return from, from.AddDate(0, 1, 0), nil
}
