//go:build !linux

package hal

import "context"

// RunDevice is only available on Linux.
func RunDevice(_ context.Context, _ func(ctx context.Context, h HAL) error, _ DeviceConfig) error {
	return ErrNotImplemented
}
