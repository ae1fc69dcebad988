package web

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

const staticCacheControl = "public, max-age=3600"

// DistServer serves the files under subdir of fsys at urlPrefix.
// Directory paths return 404 instead of a generated listing.
func DistServer(fsys fs.FS, subdir, urlPrefix string) (http.Handler, error) {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return nil, fmt.Errorf("static %s: %w", subdir, err)
	}

	files := http.StripPrefix(urlPrefix, http.FileServerFS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", staticCacheControl)
		files.ServeHTTP(w, r)
	}), nil
}
