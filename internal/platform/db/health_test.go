package db

import (
	"errors"
	"net/http"
	"testing"
)

func TestHealthResponse_Healthy(t *testing.T) {
	stats := &PoolStats{TotalConns: 5, IdleConns: 3, MaxConns: 20, Healthy: true}

	code, body := healthResponse(stats, nil)

	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if !stats.Healthy {
		t.Error("healthy pool reported unhealthy")
	}
}

func TestHealthResponse_PingFailure(t *testing.T) {
	// counters look fine, but the ping failed
	stats := &PoolStats{TotalConns: 5, MaxConns: 20, Healthy: true}

	code, body := healthResponse(stats, errors.New("connection refused"))

	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if body["status"] != "unhealthy" {
		t.Errorf("status = %v, want unhealthy", body["status"])
	}
	if body["error"] != "connection refused" {
		t.Errorf("error = %v", body["error"])
	}
	if stats.Healthy {
		t.Error("ping failure must mark the pool unhealthy")
	}
}

func TestHealthResponse_DrainedPool(t *testing.T) {
	stats := &PoolStats{TotalConns: 0, MaxConns: 20, Healthy: false}

	code, _ := healthResponse(stats, nil)

	// a drained pool with a working ping still answers 200; the payload
	// carries the unhealthy counter state for operators
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if stats.Healthy {
		t.Error("drained pool should keep Healthy=false")
	}
}
