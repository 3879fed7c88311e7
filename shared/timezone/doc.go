// Package timezone pins every timestamp the service produces to the configured APP_TIMEZONE
// (an IANA name such as "Africa/Nairobi"). Unknown or empty names fall back to UTC.
//
// Handlers take the current instant from Now so that tests can freeze it with SetClock:
//
//	restore := timezone.SetClock(func() time.Time { return fixed })
//	defer restore()
package timezone
