package constants

import "time"

// Redis cache keys and TTLs for the Dexotix backend.
// Pattern: dexotix:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_STATIC_MEDIUM = 12 * time.Hour
	TTL_STATIC_SHORT  = 6 * time.Hour
)

const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute
)

const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute
	TTL_DYNAMIC_QUICK = 2 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "dexotix"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST     = CACHE_PREFIX + ":events:list"     // + :page:X:limit:Y:status:Z
	CACHE_KEY_EVENTS_UPCOMING = CACHE_PREFIX + ":events:upcoming" // + :limit:X
	CACHE_KEY_EVENT_DETAIL    = CACHE_PREFIX + ":events:detail:uuid:"
	CACHE_KEY_EVENT_OCCURRENCES = CACHE_PREFIX + ":events:occurrences:uuid:"

	PATTERN_INVALIDATE_EVENT_ALL = CACHE_PREFIX + ":events:*"
)

const (
	TTL_EVENT_LIST        = TTL_SEMI_STATIC_SHORT
	TTL_EVENT_UPCOMING    = TTL_SEMI_STATIC_QUICK
	TTL_EVENT_DETAIL      = TTL_SEMI_STATIC_MEDIUM
	TTL_EVENT_OCCURRENCES = TTL_SEMI_STATIC_QUICK
)

// ================== TAGS MODULE ==================

const (
	CACHE_KEY_TAGS_ACTIVE = CACHE_PREFIX + ":tags:active:all"

	PATTERN_INVALIDATE_TAGS_ALL = CACHE_PREFIX + ":tags:*"
)

const (
	TTL_TAGS_ACTIVE = TTL_STATIC_LONG
)

// ================== VENUES MODULE ==================

const (
	CACHE_KEY_VENUE_DETAIL          = CACHE_PREFIX + ":venues:detail:uuid:"
	CACHE_KEY_VENUE_SEAT_CATEGORIES = CACHE_PREFIX + ":venues:seat_categories:uuid:"

	PATTERN_INVALIDATE_VENUES_ALL = CACHE_PREFIX + ":venues:*"
)

const (
	TTL_VENUE_DETAIL          = TTL_STATIC_MEDIUM
	TTL_VENUE_SEAT_CATEGORIES = TTL_STATIC_SHORT
)

// ================== SEATS MODULE ==================

const (
	CACHE_KEY_SEATMAP_BY_VENUE = CACHE_PREFIX + ":seats:map:venue:" // + venue-id
)

const (
	TTL_SEAT_MAP = TTL_DYNAMIC_SHORT
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_DASHBOARD = CACHE_PREFIX + ":analytics:dashboard"
	CACHE_KEY_ANALYTICS_EVENT     = CACHE_PREFIX + ":analytics:event:uuid:" // + event-id
	CACHE_KEY_ANALYTICS_DAILY     = CACHE_PREFIX + ":analytics:daily"       // + :days:N

	PATTERN_INVALIDATE_ANALYTICS_ALL = CACHE_PREFIX + ":analytics:*"
)

const (
	TTL_ANALYTICS_DASHBOARD = TTL_DYNAMIC_SHORT
	TTL_ANALYTICS_EVENT     = TTL_SEMI_STATIC_QUICK
	TTL_ANALYTICS_DAILY     = TTL_SEMI_STATIC_QUICK
)

// ================== AUTH MODULE ==================

const (
	KEY_REFRESH_TOKEN  = CACHE_PREFIX + ":auth:refresh:uuid:" // + user-id
	KEY_SESSION_INTENT = CACHE_PREFIX + ":auth:intent:uuid:"  // + user-id
)
