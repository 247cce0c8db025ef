package logging

// maxLoggedPayload is the longest payload fragment ever written to a log
// line. Image data URLs run to megabytes; logging them whole makes log
// storage useless.
const maxLoggedPayload = 64

// TruncatePayload shortens large payloads (base64 images, raw model text)
// for logging. The full values are persisted on the inspection record; logs
// only need enough to identify the payload.
func TruncatePayload(s string) string {
	if len(s) <= maxLoggedPayload {
		return s
	}
	return s[:maxLoggedPayload] + "...(truncated)"
}
