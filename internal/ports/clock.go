package ports

import "time"

// Clock is the monotonic time source of a session.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
