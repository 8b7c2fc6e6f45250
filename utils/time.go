package utils

import "time"

// ToWIB converts UTC time to Western Indonesian Time (WIB)
func ToWIB(t time.Time) time.Time {
	wib, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return t // Fallback to UTC if WIB is not available
	}
	return t.In(wib)
}
