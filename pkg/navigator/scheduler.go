package navigator

import "github.com/randalmurphal/navigator/pkg/navigator/schedule"

// Scheduler is the single execution context navigation state lives on.
type Scheduler = schedule.Scheduler

// Timer is a pending delayed callback on a Scheduler.
type Timer = schedule.Timer
