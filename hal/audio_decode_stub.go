//go:build !cgo

package hal

import (
	"fmt"
	"io"
)

func decodeAsset(_ int, name string, _ io.Reader) ([]byte, error) {
	return nil, fmt.Errorf("decode %s: %w (audio decoding requires cgo)", name, ErrNotImplemented)
}
