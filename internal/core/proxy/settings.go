package proxy

import "fmt"

// Settings contains egress proxy configuration for outbound HTTP calls.
// Some customer networks only allow ERP traffic through a forward proxy.
type Settings struct {
	Enabled  bool
	Hostname string
	Port     int
	Username string
	Password string
}

// HasProxy returns true if proxy is enabled and configured.
func (p Settings) HasProxy() bool {
	return p.Enabled && p.Hostname != "" && p.Port > 0
}

// FullURL returns the full proxy URL, including credentials when present.
func (p Settings) FullURL() string {
	if !p.HasProxy() {
		return ""
	}
	if p.Username != "" && p.Password != "" {
		return fmt.Sprintf("http://%s:%s@%s:%d", p.Username, p.Password, p.Hostname, p.Port)
	}
	return fmt.Sprintf("http://%s:%d", p.Hostname, p.Port)
}
