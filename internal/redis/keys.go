package redisx

import "fmt"

const ns = "kinotix:v1"

func KeyScreeningSummary(screeningID int64) string {
	return fmt.Sprintf("%s:screening:%d:summary", ns, screeningID)
}

func KeyScreeningTickets(screeningID int64) string {
	return fmt.Sprintf("%s:screening:%d:tickets", ns, screeningID)
}

// KeyRateLimit is the limiter key prefix for a scope; the limiter appends
// the client identity.
func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func ChannelScreeningsChanged() string {
	return ns + ":screenings:changed"
}
