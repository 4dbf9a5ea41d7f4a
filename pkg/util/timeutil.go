package util

import "time"

// IST is India Standard Time; the product's cities all live in it.
var IST = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}
