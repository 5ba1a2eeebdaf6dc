package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// DashboardStats are the display-ready metrics derived from the counters on
// the agent record. Ratio and trend fields are nil when their denominator is
// zero; clients render those as "N/A".
type DashboardStats struct {
	TotalUsers        int64  `json:"total_users"`
	ActiveUsers       int64  `json:"active_users"`
	PremiumUsers      int64  `json:"premium_users"`
	SuccessfulMatches int64  `json:"successful_matches"`
	TotalRevenue      string `json:"total_revenue"`
	LastMonthRevenue  string `json:"last_month_revenue"`

	// Month-over-month percentage deltas.
	RevenueTrendPct *float64 `json:"revenue_trend_pct"`
	UserTrendPct    *float64 `json:"user_trend_pct"`

	// Ratios over total users.
	ConversionRatePct *float64 `json:"conversion_rate_pct"`
	SuccessRatePct    *float64 `json:"success_rate_pct"`
	RevenuePerUser    *string  `json:"revenue_per_user"`
}

// DashboardUsecase derives display metrics from the agent record.
type DashboardUsecase interface {
	Stats(ctx context.Context, identityToken string) (*DashboardStats, error)
}

type dashboardUsecase struct {
	profiles ProfileUsecase
}

// NewDashboardUsecase builds the dashboard on top of the profile reader so
// reference-code assignment stays in one place.
func NewDashboardUsecase(profiles ProfileUsecase) DashboardUsecase {
	return &dashboardUsecase{profiles: profiles}
}

func (u *dashboardUsecase) Stats(ctx context.Context, identityToken string) (*DashboardStats, error) {
	profile, err := u.profiles.GetProfile(ctx, identityToken)
	if err != nil {
		return nil, err
	}
	agent := profile.Agent

	stats := &DashboardStats{
		TotalUsers:        agent.TotalUsers,
		ActiveUsers:       agent.ActiveUsers,
		PremiumUsers:      agent.PremiumUsers,
		SuccessfulMatches: agent.SuccessfulMatches,
		TotalRevenue:      FormatINR(agent.TotalRevenue),
		LastMonthRevenue:  FormatINR(agent.LastMonthRevenue),
	}

	stats.RevenueTrendPct = percentDelta(agent.LastMonthRevenue, agent.PreviousMonthRevenue)
	stats.UserTrendPct = percentDelta(float64(agent.ActiveUsers), float64(agent.LastMonthActiveUsers))
	stats.ConversionRatePct = ratioPct(float64(agent.PremiumUsers), float64(agent.TotalUsers))
	stats.SuccessRatePct = ratioPct(float64(agent.SuccessfulMatches), float64(agent.TotalUsers))

	if agent.TotalUsers > 0 {
		perUser := FormatINR(agent.TotalRevenue / float64(agent.TotalUsers))
		stats.RevenuePerUser = &perUser
	}

	return stats, nil
}

// percentDelta computes the month-over-month change of current against
// previous, rounded to one decimal place. Nil when previous is zero.
func percentDelta(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	v := round1((current - previous) / previous * 100)
	return &v
}

// ratioPct computes part/total as a percentage rounded to one decimal place.
// Nil when total is zero.
func ratioPct(part, total float64) *float64 {
	if total == 0 {
		return nil
	}
	v := round1(part / total * 100)
	return &v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatINR renders an amount as Indian rupees with the Indian digit
// grouping convention (for example 1234567 becomes ₹12,34,567). Fractions
// are dropped, matching the reference display.
func FormatINR(amount float64) string {
	neg := amount < 0
	n := int64(math.Round(math.Abs(amount)))

	digits := fmt.Sprintf("%d", n)
	grouped := groupIndian(digits)

	if neg {
		return "-₹" + grouped
	}
	return "₹" + grouped
}

// groupIndian inserts commas per the Indian numbering system: the last three
// digits form one group, every preceding pair forms another.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(groups, ",") + "," + tail
}
