package utils

import (
	"net/http"
	"strings"

	"github.com/mssola/user_agent"
)

// 🌐 GetIPAddress gets the real IP address from request
func GetIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		addr = addr[:i]
	}
	return strings.Trim(addr, "[]")
}

// 📱 DeviceSummary describes the browser and OS behind a user agent string,
// e.g. "Firefox 121.0 on Linux x86_64".
func DeviceSummary(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := user_agent.New(ua)
	if parsed.Bot() {
		return "bot"
	}

	name, version := parsed.Browser()
	summary := strings.TrimSpace(name + " " + version)
	if os := parsed.OS(); os != "" {
		summary += " on " + os
	}
	if parsed.Mobile() {
		summary += " (mobile)"
	}
	return summary
}
