package recipe

import (
	"strconv"
	"strings"
)

// ParseQuantity 把匯入行的數量字串轉成數值
// 支援帶分數（"1 1/2"）、分數（"3/4"）、小數與整數；解析不了回 0
func ParseQuantity(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	// 帶分數："1 1/2" → 1.5
	if parts := strings.Fields(s); len(parts) == 2 && strings.Contains(parts[1], "/") {
		whole, err := strconv.ParseFloat(parts[0], 64)
		if err == nil {
			if frac, ok := parseFraction(parts[1]); ok {
				return whole + frac
			}
		}
	}

	if frac, ok := parseFraction(s); ok {
		return frac
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return 0
}

func parseFraction(s string) (float64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}
