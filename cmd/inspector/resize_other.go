//go:build windows

package main

import "os"

// no resize notifications; the report keeps its first layout
func resizeSignals() (<-chan os.Signal, func()) {
	return nil, func() {}
}
