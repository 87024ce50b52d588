package api

import "regexp"

var bearerPattern = regexp.MustCompile(`(?i)(authorization:\s*bearer\s+)\S+`)

func redact(s string) string {
	return bearerPattern.ReplaceAllString(s, "${1}[redacted]")
}
