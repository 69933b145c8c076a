package fileserver

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/klauspost/compress/gzhttp"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

func init() {
	// Not every platform mime table knows these, and browsers refuse a
	// manifest or module served as text/plain.
	_ = mime.AddExtensionType(".webmanifest", "application/manifest+json")
	_ = mime.AddExtensionType(".wasm", "application/wasm")
}

// HandlerConfig configures the file handler.
type HandlerConfig struct {
	// Fs is the served tree. Names are resolved from its root "/".
	Fs afero.Fs

	// Hidden lists root-relative names answered with 404. Matching ignores
	// case, since macOS and Windows disks resolve any casing to the file.
	Hidden []string

	// Gzip compresses responses for clients that accept it.
	Gzip bool
}

type fileHandler struct {
	fs     afero.Fs
	files  http.Handler
	hidden map[string]struct{}
}

// NewHandler returns a handler serving cfg.Fs with http.FileServer
// semantics: files by content, directories by index.html or a listing,
// everything else 404.
func NewHandler(cfg HandlerConfig) http.Handler {
	h := &fileHandler{
		fs:    cfg.Fs,
		files: http.FileServer(afero.NewHttpFs(cfg.Fs).Dir("/")),
		hidden: lo.SliceToMap(cfg.Hidden, func(name string) (string, struct{}) {
			return strings.ToLower(path.Clean("/" + name)), struct{}{}
		}),
	}
	if cfg.Gzip {
		return gzhttp.GzipHandler(h)
	}
	return h
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if _, ok := h.hidden[strings.ToLower(name)]; ok {
		http.NotFound(w, r)
		return
	}

	if IsServiceWorker(path.Base(name)) {
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Service-Worker-Allowed", "/")
	}

	// http.FileServer redirects /index.html to /, so regular files are
	// served directly and only directories and misses go through it.
	info, err := h.fs.Stat(name)
	if err != nil || !info.Mode().IsRegular() || strings.HasSuffix(r.URL.Path, "/") {
		h.files.ServeHTTP(w, r)
		return
	}

	f, err := h.fs.Open(name)
	if err != nil {
		h.files.ServeHTTP(w, r)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// IsServiceWorker reports whether a file name looks like a service-worker
// script (sw.js, service-worker.js, firebase-messaging-sw.js, ...).
func IsServiceWorker(name string) bool {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".js") {
		return false
	}
	base := strings.TrimSuffix(name, ".js")
	return base == "sw" ||
		strings.HasSuffix(base, "-sw") ||
		strings.HasSuffix(base, "_sw") ||
		strings.HasSuffix(base, "service-worker") ||
		strings.HasSuffix(base, "serviceworker")
}
