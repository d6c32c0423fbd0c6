package utils

import (
	"strings"
	"testing"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name        string
		userAgent   string
		wantBrowser string
		wantOS      string
		wantDevice  string
	}{
		{
			name:        "chrome on windows",
			userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantBrowser: "Chrome",
			wantOS:      "Windows",
			wantDevice:  "Desktop",
		},
		{
			name:        "safari on iphone",
			userAgent:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			wantBrowser: "Safari",
			wantOS:      "iOS",
			wantDevice:  "iPhone",
		},
		{
			name:        "firefox on linux",
			userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			wantBrowser: "Firefox",
			wantOS:      "Linux",
			wantDevice:  "Desktop",
		},
		{
			name:        "empty user agent",
			userAgent:   "",
			wantBrowser: "Unknown Browser",
			wantOS:      "Unknown OS",
			wantDevice:  "Desktop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browser, os, device := ParseUserAgent(tt.userAgent)
			if browser != tt.wantBrowser {
				t.Errorf("browser = %q, want %q", browser, tt.wantBrowser)
			}
			if os != tt.wantOS {
				t.Errorf("os = %q, want %q", os, tt.wantOS)
			}
			if device != tt.wantDevice {
				t.Errorf("device = %q, want %q", device, tt.wantDevice)
			}
		})
	}
}

func TestDeviceSummary(t *testing.T) {
	summary := DeviceSummary(
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Berlin, Germany",
	)
	if summary != "Firefox on Linux (Berlin, Germany)" {
		t.Errorf("DeviceSummary() = %q", summary)
	}

	noLocation := DeviceSummary("", "")
	if !strings.Contains(noLocation, "Unknown Location") {
		t.Errorf("DeviceSummary without location = %q, want Unknown Location marker", noLocation)
	}
}

func TestGetLocationFromIPLocalAddresses(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"", "Unknown Location"},
		{"127.0.0.1", "Local Network"},
		{"::1", "Local Network"},
		{"192.168.1.50", "Local Network"},
		{"10.0.4.17", "Local Network"},
	}

	for _, tt := range tests {
		got, err := GetLocationFromIP(tt.ip)
		if err != nil {
			t.Errorf("GetLocationFromIP(%q) error = %v", tt.ip, err)
			continue
		}
		if got != tt.want {
			t.Errorf("GetLocationFromIP(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}
