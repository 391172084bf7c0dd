// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/respond"
)

// HealthDependencies holds the injectable checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckRegistry fails when the default source is not registered.
	CheckRegistry func() error

	// CacheStats reports the resolver mapping cache size and TTL.
	CacheStats func() (entries int, ttlSeconds float64)
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus: "ok",
		"version":             constants.AppVersion,
	})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	results := make([]checkResult, 0, 1)
	isSystemReady := true

	// Check the adapter registry
	if handler.dependencies.CheckRegistry != nil {
		result := checkResult{Name: "registry", IsOK: true}
		if err := handler.dependencies.CheckRegistry(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", "registry"), slog.Any("error", err))
		}
		results = append(results, result)
	}

	payload := map[string]any{
		constants.FieldStatus: "ready",
		constants.FieldChecks: results,
	}

	// The mapping cache is informational and never fails readiness
	if handler.dependencies.CacheStats != nil {
		entries, ttlSeconds := handler.dependencies.CacheStats()
		payload["resolver_cache"] = map[string]any{
			"entries":     entries,
			"ttl_seconds": ttlSeconds,
		}
	}

	if !isSystemReady {
		payload[constants.FieldStatus] = "degraded"
		respond.JSON(writer, http.StatusServiceUnavailable, respond.SuccessEnvelope{Data: payload})
		return
	}

	respond.OK(writer, payload)
}
