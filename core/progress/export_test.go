package progress

import "time"

// SetNow pins the service clock and returns a func restoring it.
func SetNow(t time.Time) func() {
	prev := nowFunc
	nowFunc = func() time.Time { return t }
	return func() { nowFunc = prev }
}
