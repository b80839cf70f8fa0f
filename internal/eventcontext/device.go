package eventcontext

import (
	"strings"

	"github.com/mssola/useragent"
)

// Device is the parsed form of a User-Agent string.
type Device struct {
	Name           string `json:"name"`
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browser_version,omitempty"`
	OS             string `json:"os,omitempty"`
	Platform       string `json:"platform,omitempty"`
	Mobile         bool   `json:"mobile"`
	Bot            bool   `json:"bot"`
}

// ParseDevice returns nil for an empty User-Agent.
func ParseDevice(raw string) *Device {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	d := &Device{
		Browser:        browser,
		BrowserVersion: version,
		OS:             ua.OS(),
		Platform:       ua.Platform(),
		Mobile:         ua.Mobile(),
		Bot:            ua.Bot(),
	}
	d.Name = displayName(d)
	return d
}

// displayName renders "Browser on OS", falling back to the platform.
func displayName(d *Device) string {
	browser := d.Browser
	if browser == "" {
		browser = "Unknown Browser"
	}
	where := d.OS
	if where == "" {
		where = d.Platform
	}
	if where == "" {
		where = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + where)
}
