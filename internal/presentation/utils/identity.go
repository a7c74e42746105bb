package utils

import (
	"net/http"
	"strings"
)

const (
	deviceIDQueryParam = "deviceId"
	deviceIDHeader     = "X-Device-Id"
)

// DeviceID extracts the caller's device identifier, query parameter first so
// WebSocket clients (which cannot set custom headers from a browser) work,
// header as a fallback for API clients.
func DeviceID(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get(deviceIDQueryParam)); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get(deviceIDHeader))
}
