package http

import (
	"net/http"
)

// FBCLIDParam is the click identifier appended to shared links.
const FBCLIDParam = "fbclid"

// StripFBCLID redirects requests carrying the fbclid query parameter to the
// same URL without it.
func StripFBCLID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if !query.Has(FBCLIDParam) {
			next.ServeHTTP(w, r)
			return
		}
		query.Del(FBCLIDParam)
		target := *r.URL
		target.RawQuery = query.Encode()
		http.Redirect(w, r, target.RequestURI(), http.StatusSeeOther)
	})
}
