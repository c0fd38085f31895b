package ports

import "grindstone/internal/domain/minion"

type TripMetrics interface {
	RecordDispatch(activityType minion.ActivityType)
	RecordResolved(activityType minion.ActivityType)
	RecordConflict()
	RecordFailure()
}
