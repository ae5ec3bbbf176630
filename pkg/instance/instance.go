package instance

import "os"

// GetID identifies this process in logs. It prefers MICRON_INSTANCE_ID, then
// the platform dyno name, then the hostname.
func GetID() string {
	if id := os.Getenv("MICRON_INSTANCE_ID"); id != "" {
		return id
	}
	if dyno := os.Getenv("DYNO"); dyno != "" {
		return dyno
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "api-0"
}
