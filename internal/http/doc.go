// Package http provides the inbound webhook endpoint and middleware for the
// stand-up notifier.
//
// The router exposes a single endpoint:
//   - POST /zoom/webhook: Zoom presence events, authenticated by the
//     `x-zm-signature` / `x-zm-request-timestamp` payload signature. Responds
//     200 for accepted events (including unmonitored rooms and benign
//     inconsistent end events), 400 for malformed or unsupported payloads and
//     session conflicts, 401 for signature failures.
//
// Request/response DTOs live alongside the handler so tests and
// documentation share the same ground truth.
package http
