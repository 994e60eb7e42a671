// Package notifications delivers run milestones via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Individual notification kinds (run started, run completed, duplicates,
// errors) can be suppressed per config flag; suppressed notifications return
// nil without touching the network. Delivery is best effort: callers log
// failures and continue.
//
// Extend this package if you need alternative transports; pipeline code
// depends only on the Service interface.
package notifications
