package utils

import (
	"time"
	_ "time/tzdata"
)

// Now now, truncated to the second
func Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// TimeZone time zone
func TimeZone() string {
	zone, _ := time.Now().Zone()
	return zone
}

// FormatUnix format unix seconds in loc, local time when loc is nil
func FormatUnix(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	return time.Unix(ts, 0).In(loc).Format("2006-01-02 15:04:05")
}
