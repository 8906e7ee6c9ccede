package simfs

import (
	"github.com/virtfs/virtfs/block"
	"github.com/virtfs/virtfs/clock"
)

// core bundles the two things every subsystem function in this package
// needs: the block device and a way to read the current time. It is
// never exposed outside the package — Server is the public surface,
// and only Server's single serializer goroutine ever calls into core.
type core struct {
	dev *block.Device
	clk clock.Clock
}
