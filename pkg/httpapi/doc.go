// Package httpapi exposes registered rule sets over HTTP and provides Guard,
// a middleware that validates form submissions before they reach a handler.
//
// Responses use a single envelope: {"data": ...} on success and
// {"error": {"code", "message", "details"}} on failure. A failed check is a
// 422 whose details map the failing field to its message.
package httpapi
