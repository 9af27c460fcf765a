// Package twfiles serves YAML configuration documents to
// twstyle.OpenConfig from a directory or any net/http.FileSystem, so the
// same documents can come from disk, an embed.FS or a test map.
package twfiles

import (
	"io"
	"net/http"
)

// New returns a Source reading configuration documents from dir.
func New(dir string) *HTTPFiles {
	return NewHTTP(http.Dir(dir))
}

// NewHTTP returns a Source reading configuration documents from fs. The
// document "site" is read from "/site.yaml" unless NameMapFunc says
// otherwise.
func NewHTTP(fs http.FileSystem) *HTTPFiles {
	return &HTTPFiles{FileSystem: fs}
}

// HTTPFiles implements twstyle.Source. Configuration names map to file
// paths with NameMapFunc, or to "/"+name+".yaml" when it is nil.
type HTTPFiles struct {
	http.FileSystem
	NameMapFunc func(name string) string
}

// OpenConfig opens the YAML document for the configuration name. The
// caller closes it.
func (hf *HTTPFiles) OpenConfig(name string) (io.ReadCloser, error) {
	path := "/" + name + ".yaml"
	if hf.NameMapFunc != nil {
		path = hf.NameMapFunc(name)
	}
	return hf.FileSystem.Open(path)
}
