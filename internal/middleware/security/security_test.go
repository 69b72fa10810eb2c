package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientIP(t *testing.T) {
	res, err := NewIPResolver()
	if err != nil {
		t.Fatalf("NewIPResolver: %v", err)
	}
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct", "203.0.113.7:5555", "", "", "203.0.113.7"},
		{"untrusted peer ignores headers", "203.0.113.7:5555", "1.1.1.1", "", "203.0.113.7"},
		{"trusted proxy xff", "10.0.0.2:80", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"trusted proxy real ip", "127.0.0.1:80", "", "198.51.100.9", "198.51.100.9"},
		{"garbage header", "192.168.1.1:80", "not-an-ip", "", "192.168.1.1"},
		{"no port", "203.0.113.7", "", "", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := res.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewIPResolverRejectsBadCIDR(t *testing.T) {
	if _, err := NewIPResolver("10.0.0.0/99"); err == nil {
		t.Fatal("expected error")
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Frame-Options") != "DENY" || rec.Header().Get("Content-Security-Policy") == "" {
		t.Errorf("headers = %v", rec.Header())
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set on plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing over TLS")
	}
}

func TestDetectorInspect(t *testing.T) {
	ips, err := NewIPResolver()
	if err != nil {
		t.Fatalf("NewIPResolver: %v", err)
	}
	d := NewDetector(ips)

	tests := []struct {
		name   string
		method string
		target string
		ua     string
		xff    string
		want   string
	}{
		{"plain page", http.MethodGet, "/ui/wallet?q=groceries", "Mozilla/5.0", "", ""},
		{"dotenv", http.MethodGet, "/.env", "", "", "path pattern"},
		{"git dir", http.MethodGet, "/static/.git/config", "", "", "path pattern"},
		{"sql in query", http.MethodGet, "/ui/wallet?q=1+union+select+1", "", "", "query pattern"},
		{"javascript in query", http.MethodGet, "/ui/wallet?q=javascript:alert(1)", "", "", "query pattern"},
		{"scanner", http.MethodGet, "/", "sqlmap/1.7", "", "scanner user agent"},
		{"trace method", "TRACE", "/", "", "", "unusual method"},
		{"long url", http.MethodGet, "/ui/wallet?q=" + strings.Repeat("a", 2100), "", "", "url too long"},
		{"long chain", http.MethodGet, "/", "", "1.1.1.1,2.2.2.2,3.3.3.3,4.4.4.4,5.5.5.5,6.6.6.6,7.7.7.7", "forwarding chain"},
		{"short chain", http.MethodGet, "/", "", "1.1.1.1, 10.0.0.2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.ua != "" {
				r.Header.Set("User-Agent", tt.ua)
			}
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := d.Inspect(r); got != tt.want {
				t.Errorf("Inspect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectorMiddlewareCountsAndServes(t *testing.T) {
	ips, err := NewIPResolver()
	if err != nil {
		t.Fatalf("NewIPResolver: %v", err)
	}
	d := NewDetector(ips)

	var reported []string
	h := d.Middleware(func(r *http.Request, clientIP, reason string) {
		reported = append(reported, clientIP+" "+reason)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, target := range []string{"/", "/wp-admin/", "/ui/dashboard"} {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		r.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s: status = %d, flagged requests must still be served", target, rec.Code)
		}
	}
	if d.SuspiciousRequests() != 1 {
		t.Errorf("SuspiciousRequests = %d, want 1", d.SuspiciousRequests())
	}
	if len(reported) != 1 || reported[0] != "203.0.113.7 path pattern" {
		t.Errorf("reported = %v", reported)
	}
}
