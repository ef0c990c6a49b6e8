// Package observability bridges engine lifecycle hooks to Prometheus
// collectors. Hosts that do not scrape metrics simply skip the wiring; the
// engine itself never depends on this package.
package observability
