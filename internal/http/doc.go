// Package http provides the optional HTTP adapter for the localization
// module.
//
// Routes mount under a base path (default /api/l10n):
//   - GET  /resolve?path=de/neuigkeiten/archiv
//   - GET  /url?page={id}&language=de&params=/items/42&absolute=true
//   - GET  /languages
//   - POST /navigation
//
// The request host selects the root page. Host applications register the
// handlers on their own mux.
package http
