// Package twhandler provides an HTTP handler that serves CSS files with
// @apply and @utilities processed against a twsheet.Sheet.
package twhandler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash"

	"github.com/gotailwindcss/twstyle"
	"github.com/gotailwindcss/twstyle/twsheet"
)

// New returns a Handler that processes CSS files from fs, writing the
// rules of sheet wherever a file says "@utilities;". With a nil fs every
// request is answered with the sheet alone.
// The internal cache is enabled on the Handler returned; entries are
// dropped whenever the sheet version or the file modification time
// changes.
func New(fs http.FileSystem, pathPrefix string, sheet *twsheet.Sheet) *Handler {
	return NewFromFunc(fs, pathPrefix, func(w io.Writer) *twstyle.Converter {
		conv := twstyle.NewConverter(w, sheet.Compiler())
		conv.SetUtilitiesFunc(sheet.WriteUtilities)
		return conv
	}, sheet.Version)
}

// NewFromFunc allows the converter to be customized, e.g. with a post
// processing func. versionFunc reports a number that changes whenever
// output for the same file would change; it may be nil.
func NewFromFunc(fs http.FileSystem, pathPrefix string, converterFunc func(w io.Writer) *twstyle.Converter, versionFunc func() uint64) *Handler {
	return &Handler{
		converterFunc: converterFunc,
		versionFunc:   versionFunc,
		fs:            fs,
		pathPrefix:    pathPrefix,
		cache:         make(map[string]cacheValue),
		headerFunc:    defaultHeaderFunc,
	}
}

func defaultHeaderFunc(w http.ResponseWriter, r *http.Request) {
	cc := w.Header().Get("Cache-Control")
	if cc == "" {
		// Force browser to check each time, but 304 still works.
		w.Header().Set("Cache-Control", "no-cache")
	}
}

// Handler serves an HTTP response for a CSS file processed with twstyle.
type Handler struct {
	converterFunc   func(w io.Writer) *twstyle.Converter
	versionFunc     func() uint64
	fs              http.FileSystem
	notFound        http.Handler
	pathPrefix      string
	writeCloserFunc func(w http.ResponseWriter, r *http.Request) io.WriteCloser
	cache           map[string]cacheValue
	rwmu            sync.RWMutex
	headerFunc      func(w http.ResponseWriter, r *http.Request)
}

// SetMaxAge calls SetHeaderFunc with a function that sets the Cache-Control header (if not already set)
// with a corresponding maximum timeout specified in seconds. If cache-breaking
// URLs are in use, this is a good option to set in production.
func (h *Handler) SetMaxAge(n int) {
	h.SetHeaderFunc(func(w http.ResponseWriter, r *http.Request) {
		cc := w.Header().Get("Cache-Control")
		if cc == "" {
			w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", n))
		}
	})
}

// SetHeaderFunc assigns a function that gets called immediately before a valid response is served.
// By default, the Cache-Control header will be set to "no-cache" if it was not set earlier
// (causing the browser to check each time for an updated resource - which may result in a
// full response or a 304).
func (h *Handler) SetHeaderFunc(f func(w http.ResponseWriter, r *http.Request)) {
	h.headerFunc = f
}

// SetNotFoundHandler assigns the handler that gets called when something is not found.
func (h *Handler) SetNotFoundHandler(nfh http.Handler) {
	h.notFound = nfh
}

// SetCache with false will disable the cache.
func (h *Handler) SetCache(enabled bool) {
	h.rwmu.Lock()
	defer h.rwmu.Unlock()
	if enabled {
		h.cache = make(map[string]cacheValue)
	} else {
		h.cache = nil
	}
}

// SetWriteCloserFunc assigns a function returning the writer responses
// are written through, e.g. a compressor that also sets Content-Encoding.
// Content-Length is not sent when one is set.
func (h *Handler) SetWriteCloserFunc(f func(w http.ResponseWriter, r *http.Request) io.WriteCloser) {
	h.writeCloserFunc = f
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	p := path.Clean(r.URL.Path)
	p = path.Clean(strings.TrimPrefix(p, h.pathPrefix))

	var (
		rd      io.Reader
		modTime time.Time
	)
	if h.fs != nil {
		f, err := h.fs.Open(p)
		if err != nil {
			code := 500
			if os.IsPermission(err) {
				code = 403
			} else if os.IsNotExist(err) {
				if h.notFound != nil {
					h.notFound.ServeHTTP(w, r)
					return
				}
				code = 404
			}
			http.Error(w, fmt.Sprintf("error opening %s: %v", r.URL.Path, err), code)
			return
		}
		defer f.Close()

		st, err := f.Stat()
		if err != nil {
			http.Error(w, fmt.Sprintf("stat failed for %s: %v", r.URL.Path, err), 500)
			return
		}
		rd, modTime = f, st.ModTime()
	} else {
		rd = strings.NewReader("@utilities;")
	}

	var version uint64
	if h.versionFunc != nil {
		version = h.versionFunc()
	}

	h.rwmu.RLock()
	cv, ok := h.cache[p]
	caching := h.cache != nil
	h.rwmu.RUnlock()
	if !ok || cv.version != version || cv.tsnano != modTime.UnixNano() {
		var err error
		cv.content, cv.hash, err = h.process(p, rd)
		if err != nil {
			http.Error(w, fmt.Sprintf("processing failed on %s: %v", r.URL.Path, err), 500)
			return
		}
		cv.version, cv.tsnano = version, modTime.UnixNano()
		if caching {
			h.rwmu.Lock()
			if h.cache != nil {
				h.cache[p] = cv
			}
			h.rwmu.Unlock()
		}
	}

	w.Header().Set("Content-Type", "text/css")
	w.Header().Set("ETag", fmt.Sprintf(`"%016x"`, cv.hash))
	if h.headerFunc != nil {
		h.headerFunc(w, r)
	}

	wc := h.makeW(w, r)
	defer wc.Close()

	// handle 304s properly with ServeContent
	http.ServeContent(
		&wwrap{Writer: wc, ResponseWriter: w, dropLength: h.writeCloserFunc != nil},
		r,
		p,
		modTime,
		strings.NewReader(cv.content),
	)
}

func (h *Handler) makeW(w http.ResponseWriter, r *http.Request) io.WriteCloser {
	var wc io.WriteCloser
	if h.writeCloserFunc != nil {
		wc = h.writeCloserFunc(w, r)
	} else {
		wc = &nopWriteCloser{Writer: w}
	}
	return wc
}

func (h *Handler) process(name string, rd io.Reader) (content string, hash uint64, reterr error) {

	var outbuf bytes.Buffer
	d := xxhash.New()

	// fill the cache buffer and the hash calc'er at the same time
	mw := io.MultiWriter(&outbuf, d)

	conv := h.converterFunc(mw)
	conv.AddReader(name, rd, false)
	err := conv.Run()
	if err != nil {
		reterr = err
		return
	}

	return outbuf.String(), d.Sum64(), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (n *nopWriteCloser) Close() error {
	return nil
}

type cacheValue struct {
	version uint64 // sheet version
	tsnano  int64  // file mod time
	content string // output
	hash    uint64 // for e-tag
}

// wwrap wraps a ResponseWriter allowing us to override where the Write calls go
type wwrap struct {
	io.Writer
	http.ResponseWriter
	dropLength bool
}

func (w *wwrap) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *wwrap) WriteHeader(code int) {
	if w.dropLength {
		w.ResponseWriter.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(code)
}
