package heliogo

import (
	"fmt"

	"github.com/ehrlich-b/heliogo/internal/config"
)

// ProductName identifies this kernel in SystemInfo and log output, the way
// the teacher's ctrl layer reports a device's driver name.
const ProductName = "heliogo"

const (
	versionMajor = 0
	versionMinor = 1
	versionPatch = 0
)

// SystemInfo is the static identification and sizing data spec §6 requires
// be queryable without a running Kernel: product name, semantic version,
// and the region/block geometry a caller would need to size its own
// buffers against. Generalized from the teacher's DeviceInfo, which reports
// a block device's geometry the same way.
type SystemInfo struct {
	ProductName    string
	VersionMajor   uint8
	VersionMinor   uint8
	VersionPatch   uint8
	BlockSize      uint32
	KernelBlocks   uint32
	UserBlocks     uint32
	MessageBytes   uint8
	NotifyBytes    uint8
	TaskNameBytes  uint8
}

// GetSystemInfo reports static build configuration. It does not require a
// live Kernel: a caller sizing buffers or checking compatibility can call it
// before ever constructing one.
func GetSystemInfo(cfg config.Config) SystemInfo {
	return SystemInfo{
		ProductName:   ProductName,
		VersionMajor:  versionMajor,
		VersionMinor:  versionMinor,
		VersionPatch:  versionPatch,
		BlockSize:     cfg.BlockSize,
		KernelBlocks:  cfg.KernelRegionBlocks,
		UserBlocks:    cfg.UserRegionBlocks,
		MessageBytes:  cfg.MessageValueBytes,
		NotifyBytes:   cfg.NotificationValueBytes,
		TaskNameBytes: cfg.TaskNameBytes,
	}
}

// Version returns the dotted semantic version string, e.g. "0.1.0".
func (si SystemInfo) Version() string {
	return fmt.Sprintf("%d.%d.%d", si.VersionMajor, si.VersionMinor, si.VersionPatch)
}
