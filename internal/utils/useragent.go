package utils

import (
	"github.com/mssola/user_agent"
)

// DeviceInfo is the parsed device summary stored with audit records.
type DeviceInfo struct {
	DeviceType string
	OS         string
	Browser    string
}

// ParseUserAgent extracts device type, OS and browser from a raw
// User-Agent header.
func ParseUserAgent(rawUA string) DeviceInfo {
	if rawUA == "" {
		return DeviceInfo{DeviceType: "unknown", OS: "unknown", Browser: "unknown"}
	}

	ua := user_agent.New(rawUA)

	deviceType := "desktop"
	if ua.Mobile() {
		deviceType = "mobile"
	} else if ua.Bot() {
		deviceType = "bot"
	}

	browser, version := ua.Browser()
	if version != "" {
		browser = browser + " " + version
	}

	info := DeviceInfo{
		DeviceType: deviceType,
		OS:         ua.OS(),
		Browser:    browser,
	}
	if info.OS == "" {
		info.OS = "unknown"
	}
	if info.Browser == "" {
		info.Browser = "unknown"
	}
	return info
}
