package http

import (
	"bytes"
	"embed"
	"io/fs"
	stdhttp "net/http"
	"time"
)

//go:embed static
var staticFiles embed.FS

func staticHandler() stdhttp.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return stdhttp.StripPrefix("/static/", stdhttp.FileServerFS(sub))
}

// faviconHandler answers both the SVG path the layout links and the legacy .ico path.
func faviconHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	favicon, err := staticFiles.ReadFile("static/favicon.svg")
	if err != nil || len(favicon) == 0 {
		w.WriteHeader(stdhttp.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	stdhttp.ServeContent(w, r, "favicon.svg", time.Time{}, bytes.NewReader(favicon))
}
