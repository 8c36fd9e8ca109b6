package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/xivtools/lodestone-aggregator/pkg/aggregate"
	"github.com/xivtools/lodestone-aggregator/pkg/cache"
	"github.com/xivtools/lodestone-aggregator/pkg/logging"
	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
	"github.com/xivtools/lodestone-aggregator/pkg/ratelimit"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "false") == "true",
	})

	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	parserURL := getEnv("LODESTONE_PARSER_URL", "http://localhost:8081")
	userAgent := getEnv("USER_AGENT", "lodestone-aggregator/1.0")
	paceMs := getEnvInt("BATCH_PACE_MS", 500)

	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
	}
	log.Info().Str("redis_url", redisURL).Msg("Connected to Redis")

	httpCfg := lodestone.DefaultHTTPConfig(parserURL)
	httpCfg.UserAgent = userAgent
	client, err := lodestone.NewHTTPClient(httpCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Lodestone client")
	}

	facade := cache.NewFacade(cache.NewRedisStore(redisClient))
	pacer := ratelimit.NewPacer(1, time.Duration(paceMs)*time.Millisecond)
	agg := aggregate.New(client, facade, aggregate.DefaultConfig(), aggregate.WithPacer(pacer))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(redisClient))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/character/search", searchHandler(agg))
	r.Get("/character/{id}", characterHandler(agg))
	r.Get("/characters", charactersHandler(agg))

	addr := ":" + port
	log.Info().Str("addr", addr).Str("parser_url", parserURL).Msg("Starting aggregation API")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// requestOptions derives aggregation options from the query string.
// ?data=AC,FR,MIMO selects sections; unknown codes are ignored.
func requestOptions(r *http.Request) aggregate.Options {
	return aggregate.Options{
		Sections:   aggregate.ParseSections(r.URL.Query().Get("data")),
		Extended:   r.URL.Query().Get("extended") == "1",
		ForceFresh: r.URL.Query().Get("fresh") == "1",
	}
}

func characterHandler(agg *aggregate.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
		if err != nil {
			http.Error(w, "invalid character id", http.StatusBadRequest)
			return
		}

		resp, err := agg.Character(r.Context(), uint32(id), requestOptions(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func charactersHandler(agg *aggregate.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("ids")
		if raw == "" {
			http.Error(w, "ids parameter is required", http.StatusBadRequest)
			return
		}

		var ids []uint32
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				http.Error(w, "invalid character id: "+part, http.StatusBadRequest)
				return
			}
			ids = append(ids, uint32(id))
		}

		entries, err := agg.Multi(r.Context(), ids, requestOptions(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, entries)
	}
}

func searchHandler(agg *aggregate.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))

		result, err := agg.Search(r.Context(), q.Get("name"), q.Get("server"), page)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, result)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lodestone.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, aggregate.ErrMissingName), errors.Is(err, aggregate.ErrBatchTooLarge):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
