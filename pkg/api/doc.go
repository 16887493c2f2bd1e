// Package api contains the HTTP surface of the story service.
//
// Subpackages:
//   - types: JSON response bodies and the {"detail": ...} error format
//   - middleware: request ID, client key, logging, recovery, CORS, timeout
//   - handlers: the route handlers and their registration on a ServeMux
//
// The server package assembles them:
//
//	mux := http.NewServeMux()
//	handlers.New(cfg).Register(mux)
//	handler := middleware.Recovery(middleware.Logging(middleware.RequestID(...)))
package api
