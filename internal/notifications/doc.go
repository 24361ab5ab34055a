// Package notifications delivers the slot-available alert to a webhook.
//
// Two providers are supported: discord (JSON body with content and username)
// and ntfy (plain-text body with a Title header). When no webhook URL is
// configured, or for dry runs, a no-op implementation is returned.
// Delivery is attempted once; there is no retry and no confirmation beyond
// the HTTP status.
package notifications
