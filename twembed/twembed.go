// Package twembed provides the default twstyle configuration embedded in
// the binary.
package twembed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
)

//go:embed default.yaml
var defaultYAML []byte

// New returns an instance that implements twstyle.Source using data embedded in this package.
func New() Source {
	return Source{}
}

// Source implements twstyle.Source.
type Source struct{}

// OpenConfig implements the interface and returns embedded data. The only
// name is "default".
func (Source) OpenConfig(name string) (io.ReadCloser, error) {
	switch name {
	case "default":
		return io.NopCloser(bytes.NewReader(defaultYAML)), nil
	}
	return nil, fmt.Errorf("twembed unknown name %q", name)
}
