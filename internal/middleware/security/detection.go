package security

import (
	"net/http"
	"strings"
	"sync/atomic"
)

var (
	suspiciousPatterns = []string{
		"../", "..\\", ".env", "wp-admin", "phpmyadmin",
		"admin.php", "config.php", ".git", ".ssh",
		"eval(", "javascript:", "<script", "union select",
		"etc/passwd", "cmd.exe",
	}
	scannerAgents = []string{
		"sqlmap", "nmap", "nikto", "gobuster", "dirb",
		"masscan", "zgrab", "scanner",
	}
	unusualMethods = []string{"TRACE", "TRACK", "DEBUG", "CONNECT"}
)

const (
	maxURLLength     = 2048
	maxForwardedHops = 5
)

// Detector flags requests that look like probing. Flagged requests are
// counted and reported, never blocked.
type Detector struct {
	ips        *IPResolver
	suspicious atomic.Int64
}

func NewDetector(ips *IPResolver) *Detector {
	return &Detector{ips: ips}
}

// Inspect returns the first reason r looks suspicious, or "" when it does not.
func (d *Detector) Inspect(r *http.Request) string {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, p := range suspiciousPatterns {
		if strings.Contains(path, p) {
			return "path pattern"
		}
		if strings.Contains(query, p) {
			return "query pattern"
		}
	}

	ua := strings.ToLower(r.Header.Get("User-Agent"))
	for _, a := range scannerAgents {
		if strings.Contains(ua, a) {
			return "scanner user agent"
		}
	}

	for _, m := range unusualMethods {
		if r.Method == m {
			return "unusual method"
		}
	}

	if len(r.URL.String()) > maxURLLength {
		return "url too long"
	}
	if strings.Count(r.Header.Get("X-Forwarded-For"), ",") > maxForwardedHops {
		return "forwarding chain"
	}
	return ""
}

// Middleware counts suspicious requests and hands them to report before
// serving them as usual.
func (d *Detector) Middleware(report func(r *http.Request, clientIP, reason string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if reason := d.Inspect(r); reason != "" {
				d.suspicious.Add(1)
				if report != nil {
					report(r, d.ips.ClientIP(r), reason)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (d *Detector) SuspiciousRequests() int64 {
	return d.suspicious.Load()
}
