package adapter

import "time"

// Clock abstracts "now" so window and expiry comparisons are testable. The
// progress engine never reads the system clock directly.
type Clock interface {
	Now() time.Time
}
