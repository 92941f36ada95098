package constants

import "time"

// Storage keys of the persisted JSON blobs.
const (
	StorageKeyCOIs       = "coiData"
	StorageKeyProperties = "coiProperties"
)

// Date windows, in days from today.
const (
	ExpiringSoonDays = 30
	ExpiringLongDays = 90
)

// Pagination
const (
	DefaultPage        = 1
	DefaultRowsPerPage = 10
)

// RowsPerPageChoices are the only accepted page sizes.
var RowsPerPageChoices = []int{10, 25, 50, 100}

func ValidRowsPerPage(n int) bool {
	for _, c := range RowsPerPageChoices {
		if c == n {
			return true
		}
	}
	return false
}

// Search + filter memo
const (
	DefaultSearchDebounce = 300 * time.Millisecond
	FilterCacheTTL        = 10 * time.Minute
	FilterCacheCleanup    = 15 * time.Minute
)

// StatusMaintenanceSchedule runs the daily expiry status refresh shortly after midnight.
const StatusMaintenanceSchedule = "5 0 * * *"

// RepositoryTimeout bounds storage work started outside a request (boot load, cron).
const RepositoryTimeout = 30 * time.Second
