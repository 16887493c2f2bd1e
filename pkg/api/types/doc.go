// Package types defines the JSON bodies returned by the story API.
//
// Errors use a single shape for every status code:
//
//	{"detail": "Zu viele Anfragen. Bitte warte ~12 Minuten."}
//
// The detail is user-facing and is shown by the frontend as is.
package types
