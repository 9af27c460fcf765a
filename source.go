package twstyle

import "io"

// Source is where named configuration documents can be read.
type Source interface {
	// OpenConfig should return a new ReadCloser for the configuration
	// document called name, e.g. "default" (no file extension). The caller
	// is responsible for calling Close() when the error is nil.
	OpenConfig(name string) (io.ReadCloser, error)
}
