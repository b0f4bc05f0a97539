//go:build !linux

package sigthread

// BlockAllSignals is a no-op on platforms without the signal thread.
func BlockAllSignals() error { return nil }
