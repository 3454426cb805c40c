// Package httpclient provides HTTP client utilities for the stressforge
// load-generation engine.
//
// [NewRequestBuilder] turns a validated config into a reusable GET request
// template (target URL plus canonicalized headers and User-Agent). [NewClient]
// builds the shared http.Client for a run: per-request timeout, a
// per-host connection ceiling acting as the outbound socket throttle, and an
// optional stop-at-first-response redirect policy.
package httpclient
