// Package api implements the fmriplot HTTP service.
//
// The service exposes figure composition over HTTP so that workflow
// engines can offload rendering to a long-lived process with a warm
// artifact cache:
//
//	POST /v1/figures  compose a figure from a JSON request body
//	GET  /healthz     liveness probe with build information
//
// Figure requests are content-addressed: two requests with identical
// composition options resolve to the same cache key, and a cached PNG
// is served without re-rendering.
package api
