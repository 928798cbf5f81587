package constants

import (
	"fmt"
	"strings"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: classbook:{module}:{operation}:{identifier}:{params?}

const (
	TTL_STATIC_LONG       = 24 * time.Hour
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute
	TTL_DYNAMIC_SHORT     = 5 * time.Minute
	TTL_DYNAMIC_QUICK     = 2 * time.Minute
)

const (
	CACHE_PREFIX = "classbook"
)

// ================== SLOTS MODULE ==================

const (
	CACHE_KEY_SLOTS_ALL        = CACHE_PREFIX + ":slots:list:all"
	CACHE_KEY_SLOTS_SEARCH     = CACHE_PREFIX + ":slots:search"            // + :day:X:group:Y
	CACHE_KEY_SLOT_OCCURRENCES = CACHE_PREFIX + ":slots:occurrences:uuid:" // + slot-id:from:X:count:Y
	PATTERN_INVALIDATE_SLOTS   = CACHE_PREFIX + ":slots:*"
)

const (
	TTL_SLOTS_LIST       = TTL_DYNAMIC_SHORT
	TTL_SLOTS_SEARCH     = TTL_DYNAMIC_SHORT
	TTL_SLOT_OCCURRENCES = TTL_SEMI_STATIC_QUICK
)

// ================== BOOKINGS MODULE ==================

const (
	// confirmed seat count per slot and class date
	CACHE_KEY_BOOKING_COUNT = CACHE_PREFIX + ":bookings:count:slot:" // + slot-id:date:YYYY-MM-DD
)

const (
	TTL_BOOKING_COUNT = TTL_DYNAMIC_QUICK
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_DASHBOARD = CACHE_PREFIX + ":analytics:dashboard"
	CACHE_KEY_ANALYTICS_SLOTS     = CACHE_PREFIX + ":analytics:slots:from:" // + YYYY-MM-DD
	CACHE_KEY_ANALYTICS_DAILY     = CACHE_PREFIX + ":analytics:daily:days:" // + N
)

const (
	TTL_ANALYTICS_DASHBOARD = TTL_DYNAMIC_SHORT
	TTL_ANALYTICS_SLOTS     = TTL_DYNAMIC_SHORT
	TTL_ANALYTICS_DAILY     = TTL_SEMI_STATIC_QUICK
)

// ================== HELPER FUNCTIONS ==================

// BuildSlotSearchKey -> "classbook:slots:search:day:monday:group:kids"
func BuildSlotSearchKey(day, group string) string {
	return CACHE_KEY_SLOTS_SEARCH + ":day:" + keyPart(day) + ":group:" + keyPart(group)
}

func BuildSlotOccurrencesKey(slotID, from string, count int) string {
	return CACHE_KEY_SLOT_OCCURRENCES + slotID + ":from:" + from + ":count:" + fmt.Sprintf("%d", count)
}

func BuildBookingCountKey(slotID, classDate string) string {
	return CACHE_KEY_BOOKING_COUNT + slotID + ":date:" + classDate
}

func BuildSlotUtilizationKey(from string) string {
	return CACHE_KEY_ANALYTICS_SLOTS + from
}

func BuildDailyStatsKey(days int) string {
	return CACHE_KEY_ANALYTICS_DAILY + fmt.Sprintf("%d", days)
}

func keyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "_"
	}
	return strings.ReplaceAll(s, ":", "_")
}
