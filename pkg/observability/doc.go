/*
Package observability provides monitoring for mootcourt sessions.

It turns engine lifecycle hooks into Prometheus metrics and structured log
records. Both are plain domain.LifecycleHooks values, so hosts combine them with
domain.ChainHooks and hand the result to every session they create.
*/
package observability
