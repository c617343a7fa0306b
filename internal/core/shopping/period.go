package shopping

import "time"

// 清單種類；同時當成勾選狀態的命名空間
const (
	ListTypeWeekly  = "weekly_fresh"
	ListTypeMonthly = "monthly_staples"
	ListTypeMisc    = "misc_items"
)

// WeekStart 回到本週週日的零點（週從週日起算）
func WeekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// WeekKey 週清單的時間窗識別字串，例如 "2026-08-30"
func WeekKey(t time.Time) string {
	return WeekStart(t).Format("2006-01-02")
}

// MonthKey 月清單的時間窗識別字串，例如 "2026-08"
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
