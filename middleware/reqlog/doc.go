// Package reqlog provides the observability wrapper of the guard pipeline:
// a fiber middleware that correlates, times, and logs every request with
// structured leveled events.
//
// Per request it generates a uuid correlation id (exposed via X-Request-ID
// and the request context), captures a header snapshot with any header whose
// name contains authorization, cookie, or token fully omitted, emits an
// entry event, and after the inner chain returns emits a completion event
// whose level tracks the status band: informational for 2xx/3xx, warning
// for 4xx, error for 5xx, debug otherwise. The completion path logs the
// templated route pattern when one matched, so aggregation groups by route
// shape rather than by resource id.
//
// The middleware is purely observational: it never alters the response and
// a failure while computing log fields degrades to a partial event rather
// than failing the request.
package reqlog
