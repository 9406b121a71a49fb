package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"opps-backend/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// WinLossData is the payload for the win/loss dashboard: the raw rows plus
// the distinct values the filter dropdowns need. The bucketing itself is
// recomputed client-side from the rows.
type WinLossData struct {
	Opportunities     []models.Opportunity `json:"opportunities"`
	UniqueSolutions   []string             `json:"uniqueSolutions"`
	UniqueAccountMgrs []string             `json:"uniqueAccountMgrs"`
}

// WinLoss selects the columns the win/loss dashboard consumes and the unique
// solution / account-manager lists.
func (s *Service) WinLoss(ctx context.Context) (*WinLossData, error) {
	var opps []models.Opportunity
	if err := s.DB.WithContext(ctx).
		Select("uid, opp_status, date_awarded_lost, final_amt, solutions, account_mgr").
		Find(&opps).Error; err != nil {
		return nil, err
	}

	solutions := map[string]bool{}
	mgrs := map[string]bool{}
	for _, opp := range opps {
		if opp.Solutions != nil && *opp.Solutions != "" {
			solutions[*opp.Solutions] = true
		}
		if opp.AccountMgr != nil && *opp.AccountMgr != "" {
			mgrs[*opp.AccountMgr] = true
		}
	}

	return &WinLossData{
		Opportunities:     opps,
		UniqueSolutions:   sortedKeys(solutions),
		UniqueAccountMgrs: sortedKeys(mgrs),
	}, nil
}

// MonthlySummary is one forecast bucket.
type MonthlySummary struct {
	MonthYear   string  `json:"monthYear"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// ProjectDetail is one row of the forecast details table.
type ProjectDetail struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	ForecastMonth string  `json:"forecastMonth"`
	ForecastWeek  int     `json:"forecastWeek"`
}

// ForecastData is the forecast dashboard payload.
type ForecastData struct {
	TotalForecastCount      int              `json:"totalForecastCount"`
	TotalForecastAmount     float64          `json:"totalForecastAmount"`
	NextMonthForecastCount  int              `json:"nextMonthForecastCount"`
	NextMonthForecastAmount float64          `json:"nextMonthForecastAmount"`
	ForecastMonthlySummary  []MonthlySummary `json:"forecastMonthlySummary"`
	ProjectDetails          []ProjectDetail  `json:"projectDetails"`
}

// Forecast buckets open opportunities by forecast month. Declined and
// closed-out records (LOST, OP100) never count toward the forecast.
func (s *Service) Forecast(ctx context.Context, status string) (*ForecastData, error) {
	opps, err := s.forecastRows(ctx, status)
	if err != nil {
		return nil, err
	}
	return calculateForecast(opps, time.Now().UTC()), nil
}

func (s *Service) forecastRows(ctx context.Context, status string) ([]models.Opportunity, error) {
	q := s.DB.WithContext(ctx).Model(&models.Opportunity{}).
		Select("uid, forecast_date, final_amt, opp_status, project_name").
		Where("forecast_date IS NOT NULL").
		Where("decision IS NULL OR decision NOT IN ?", []string{"DECLINE", "DECLINED"}).
		Where("opp_status IS NULL OR opp_status NOT IN ?", []string{"LOST", "OP100"})
	if status != "" && !strings.EqualFold(status, "all") {
		q = q.Where("opp_status = ?", status)
	}
	var opps []models.Opportunity
	if err := q.Find(&opps).Error; err != nil {
		return nil, err
	}
	return opps, nil
}

// calculateForecast is the pure aggregation over fetched rows; now decides
// which bucket counts as "next month".
func calculateForecast(opps []models.Opportunity, now time.Time) *ForecastData {
	nextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

	out := &ForecastData{
		ForecastMonthlySummary: []MonthlySummary{},
		ProjectDetails:         []ProjectDetail{},
	}
	monthly := map[string]*MonthlySummary{}

	for _, opp := range opps {
		if opp.ForecastDate == nil {
			continue
		}
		date, ok := RobustParseDate(*opp.ForecastDate)
		if !ok {
			continue
		}
		amount := ParseCurrency(opp.FinalAmt)
		name := "Unknown Project"
		if opp.ProjectName != nil && *opp.ProjectName != "" {
			name = *opp.ProjectName
		}

		out.TotalForecastCount++
		out.TotalForecastAmount += amount

		key := fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
		if monthly[key] == nil {
			monthly[key] = &MonthlySummary{MonthYear: FormatMonthYear(date)}
		}
		monthly[key].Count++
		monthly[key].TotalAmount += amount

		out.ProjectDetails = append(out.ProjectDetails, ProjectDetail{
			Name:          name,
			Amount:        amount,
			ForecastMonth: FormatMonthYear(date),
			ForecastWeek:  WeekOfMonth(date),
		})

		if date.Year() == nextMonth.Year() && date.Month() == nextMonth.Month() {
			out.NextMonthForecastCount++
			out.NextMonthForecastAmount += amount
		}
	}

	for _, key := range sortedKeys(monthly) {
		out.ForecastMonthlySummary = append(out.ForecastMonthlySummary, *monthly[key])
	}
	return out
}

// WeekSummary is one Month-Week forecast bucket.
type WeekSummary struct {
	Week        string  `json:"week"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// ForecastWeeks buckets the forecast by CMRP week (week of month, Sunday
// start).
func (s *Service) ForecastWeeks(ctx context.Context) ([]WeekSummary, error) {
	opps, err := s.forecastRows(ctx, "")
	if err != nil {
		return nil, err
	}

	buckets := map[string]*WeekSummary{}
	for _, opp := range opps {
		if opp.ForecastDate == nil {
			continue
		}
		date, ok := RobustParseDate(*opp.ForecastDate)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%04d-%02d-%d", date.Year(), int(date.Month()), WeekOfMonth(date))
		if buckets[key] == nil {
			buckets[key] = &WeekSummary{Week: fmt.Sprintf("%s Week %d", FormatMonthYear(date), WeekOfMonth(date))}
		}
		buckets[key].Count++
		buckets[key].TotalAmount += ParseCurrency(opp.FinalAmt)
	}

	out := []WeekSummary{}
	for _, key := range sortedKeys(buckets) {
		out = append(out, *buckets[key])
	}
	return out, nil
}

// RevisionCount is one grouped forecast-change count.
type RevisionCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// RevisionSummaryData groups forecast-change activity two ways: by the day
// the change was made and by the forecast date it moved to.
type RevisionSummaryData struct {
	ByRevisionDate []RevisionCount `json:"byRevisionDate"`
	ByForecastDate []RevisionCount `json:"byForecastDate"`
}

// RevisionSummary summarizes the forecast-change ledger. Grouping happens
// here rather than in SQL so sqlite and postgres behave identically.
func (s *Service) RevisionSummary(ctx context.Context) (*RevisionSummaryData, error) {
	var revs []models.ForecastRevision
	if err := s.DB.WithContext(ctx).Find(&revs).Error; err != nil {
		return nil, err
	}

	byDay := map[string]int{}
	byDate := map[string]int{}
	for _, r := range revs {
		byDay[r.ChangedAt.UTC().Format("2006-01-02")]++
		byDate[r.NewForecastDate]++
	}

	out := &RevisionSummaryData{
		ByRevisionDate: []RevisionCount{},
		ByForecastDate: []RevisionCount{},
	}
	for _, k := range sortedKeys(byDay) {
		out.ByRevisionDate = append(out.ByRevisionDate, RevisionCount{Key: k, Count: byDay[k]})
	}
	for _, k := range sortedKeys(byDate) {
		out.ByForecastDate = append(out.ByForecastDate, RevisionCount{Key: k, Count: byDate[k]})
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
