// Package cache provides the caching facade for the aggregation engine.
//
// The facade layers typed JSON get/set over an external TTL key-value
// Store (Redis in production). Keys are deterministic functions of the
// entity ID, the section name and a schema version tag:
//
//   - lodestone_json_response_v6_123456        (mandatory profile)
//   - lodestone_json_response_v6_123456_AC     (achievements section)
//   - lodestone_json_response_v6_9000_FC       (free company, keyed by FC ID)
//   - lodestone_search_json_response_v6_...    (search responses)
//
// Caching is strictly an optimization: a Get failure is treated as a
// miss and a Set failure is logged and swallowed, so a store outage
// degrades the engine to always-fetch-upstream behaviour instead of
// failing requests.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	facade := cache.NewFacade(cache.NewRedisStore(redisClient))
//
//	key := cache.SectionKey(cache.DefaultVersion, "123456", "AC")
//
//	var entry achievementsEntry
//	if facade.GetJSON(ctx, key, &entry) {
//		// cache hit
//	}
//	facade.SetJSON(ctx, key, entry, cache.SectionTTL)
package cache
