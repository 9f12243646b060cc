package seats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AtomicHoldStore runs the multi-seat hold lifecycle through Lua scripts so
// that concurrent checkouts can never hold overlapping seats.
type AtomicHoldStore struct {
	redis *redis.Client
}

func NewAtomicHoldStore(redisClient *redis.Client) *AtomicHoldStore {
	return &AtomicHoldStore{redis: redisClient}
}

// Holds are scoped per occurrence: the same physical seat is independently
// holdable for different showings.
const luaAtomicSeatHold = `
-- KEYS[1] = hold_id
-- ARGV[1] = user_id
-- ARGV[2] = occurrence_id
-- ARGV[3] = ttl_seconds
-- ARGV[4..N] = seat_ids

local hold_id = KEYS[1]
local user_id = ARGV[1]
local occurrence_id = ARGV[2]
local ttl = tonumber(ARGV[3])

for i = 4, #ARGV do
    local seat_key = "dexotix:seats:hold:" .. occurrence_id .. ":" .. ARGV[i]
    if redis.call("EXISTS", seat_key) == 1 then
        return {0, ARGV[i]}
    end
end

local meta_key = "dexotix:seats:holdmeta:" .. hold_id
local seats_key = "dexotix:seats:holdseats:" .. hold_id
local user_key = "dexotix:seats:userholds:" .. user_id

redis.call("HMSET", meta_key,
    "user_id", user_id,
    "occurrence_id", occurrence_id,
    "seat_count", #ARGV - 3,
    "created_at", redis.call("TIME")[1]
)
redis.call("EXPIRE", meta_key, ttl)

for i = 4, #ARGV do
    local seat_key = "dexotix:seats:hold:" .. occurrence_id .. ":" .. ARGV[i]
    redis.call("SETEX", seat_key, ttl, user_id .. ":" .. hold_id)
    redis.call("SADD", seats_key, ARGV[i])
end
redis.call("EXPIRE", seats_key, ttl)

redis.call("SADD", user_key, hold_id)
redis.call("EXPIRE", user_key, ttl)

return {1, "success"}
`

const luaAtomicSeatRelease = `
-- KEYS[1] = hold_id
local hold_id = KEYS[1]

local meta_key = "dexotix:seats:holdmeta:" .. hold_id
local seats_key = "dexotix:seats:holdseats:" .. hold_id

local meta = redis.call("HGETALL", meta_key)
if #meta == 0 then
    return {0, "hold_not_found"}
end

local user_id = nil
local occurrence_id = nil
for i = 1, #meta, 2 do
    if meta[i] == "user_id" then
        user_id = meta[i + 1]
    elseif meta[i] == "occurrence_id" then
        occurrence_id = meta[i + 1]
    end
end

if not user_id or not occurrence_id then
    return {0, "invalid_hold_data"}
end

local seat_ids = redis.call("SMEMBERS", seats_key)
for i = 1, #seat_ids do
    redis.call("DEL", "dexotix:seats:hold:" .. occurrence_id .. ":" .. seat_ids[i])
end

redis.call("SREM", "dexotix:seats:userholds:" .. user_id, hold_id)
redis.call("DEL", meta_key)
redis.call("DEL", seats_key)

return {1, #seat_ids}
`

const luaAtomicSeatExtend = `
-- KEYS[1] = hold_id
-- ARGV[1] = ttl_seconds
local hold_id = KEYS[1]
local ttl = tonumber(ARGV[1])

local meta_key = "dexotix:seats:holdmeta:" .. hold_id
local seats_key = "dexotix:seats:holdseats:" .. hold_id

local meta = redis.call("HGETALL", meta_key)
if #meta == 0 then
    return {0, "hold_not_found"}
end

local occurrence_id = nil
for i = 1, #meta, 2 do
    if meta[i] == "occurrence_id" then
        occurrence_id = meta[i + 1]
    end
end

local seat_ids = redis.call("SMEMBERS", seats_key)
for i = 1, #seat_ids do
    redis.call("EXPIRE", "dexotix:seats:hold:" .. occurrence_id .. ":" .. seat_ids[i], ttl)
end

redis.call("EXPIRE", meta_key, ttl)
redis.call("EXPIRE", seats_key, ttl)

return {1, ttl}
`

func (a *AtomicHoldStore) runScript(ctx context.Context, script string, keys []string, args ...interface{}) ([]interface{}, error) {
	result, err := a.redis.EvalSha(ctx, script, keys, args...).Result()
	if err != nil {
		result, err = a.redis.Eval(ctx, script, keys, args...).Result()
		if err != nil {
			return nil, err
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return nil, fmt.Errorf("unexpected result format from Lua script")
	}
	return resultArray, nil
}

// HoldSeats atomically holds the given seats for one occurrence, failing if
// any of them is already held.
func (a *AtomicHoldStore) HoldSeats(ctx context.Context, seatIDs []uuid.UUID, userID, holdID, occurrenceID string, ttl time.Duration) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	args := []interface{}{userID, occurrenceID, strconv.Itoa(int(ttl.Seconds()))}
	for _, seatID := range seatIDs {
		args = append(args, seatID.String())
	}

	result, err := a.runScript(ctx, luaAtomicSeatHold, []string{holdID}, args...)
	if err != nil {
		return fmt.Errorf("failed to execute atomic seat hold: %w", err)
	}

	if success, _ := result[0].(int64); success == 0 {
		if conflictSeat, ok := result[1].(string); ok {
			return fmt.Errorf("seat already held: %s", conflictSeat)
		}
		return fmt.Errorf("failed to hold seats")
	}

	return nil
}

// ReleaseHold removes a hold and all its per-seat keys, returning the number
// of seats released.
func (a *AtomicHoldStore) ReleaseHold(ctx context.Context, holdID string) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	result, err := a.runScript(ctx, luaAtomicSeatRelease, []string{holdID})
	if err != nil {
		return 0, fmt.Errorf("failed to execute atomic seat release: %w", err)
	}

	if success, _ := result[0].(int64); success == 0 {
		reason, _ := result[1].(string)
		return 0, fmt.Errorf("failed to release hold: %s", reason)
	}

	released, _ := result[1].(int64)
	return int(released), nil
}

// ExtendHold pushes a live hold's expiry out to the given TTL.
func (a *AtomicHoldStore) ExtendHold(ctx context.Context, holdID string, ttl time.Duration) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	result, err := a.runScript(ctx, luaAtomicSeatExtend, []string{holdID}, strconv.Itoa(int(ttl.Seconds())))
	if err != nil {
		return fmt.Errorf("failed to execute atomic hold extend: %w", err)
	}

	if success, _ := result[0].(int64); success == 0 {
		reason, _ := result[1].(string)
		return fmt.Errorf("failed to extend hold: %s", reason)
	}

	return nil
}

// PreloadScripts loads the hold scripts into the Redis script cache at startup.
func (a *AtomicHoldStore) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	for _, script := range []string{luaAtomicSeatHold, luaAtomicSeatRelease, luaAtomicSeatExtend} {
		if _, err := a.redis.ScriptLoad(ctx, script).Result(); err != nil {
			return fmt.Errorf("failed to preload hold script: %w", err)
		}
	}
	return nil
}
