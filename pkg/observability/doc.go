/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured log lines.

Metrics and LogHooks both return domain.LifecycleHooks, so they compose with
each other and with host hooks through domain.ComposeHooks.
*/
package observability
