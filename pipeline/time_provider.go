package pipeline

import "time"

// TimeProvider stamps step runs; tests swap it for a fixed clock.
type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (rtp *realTimeProvider) Now() time.Time {
	return time.Now()
}

var timeProvider TimeProvider = &realTimeProvider{}
