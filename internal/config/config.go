// Package config holds the kernel's compile-time-overridable constants and
// the per-Kernel tunable configuration built from them.
package config

import "github.com/go-playground/validator/v10"

// Configurable constants (spec §6). Each has the same default the reference
// kernel ships, overridable per-Kernel via Config.
const (
	// MessageValueBytes is the fixed width of a message queue payload.
	MessageValueBytes = 8

	// NotificationValueBytes is the fixed width of a notification payload.
	NotificationValueBytes = 8

	// TaskNameBytes is the fixed width of a task name, not null-terminated.
	TaskNameBytes = 8

	// BlockSize is the number of bytes per heap block.
	BlockSize = 32

	// RegionBlocks is the default number of blocks per memory region.
	// Platform-dependent in the reference kernel (32/128/512); 128 is a
	// reasonable mid-range default for a simulated MCU.
	RegionBlocks = 128

	// QueueMinimumLimit is the smallest legal bound for a message queue.
	QueueMinimumLimit = 5
)

// Config carries a kernel instance's tunables. The zero value is not valid;
// use DefaultConfig and override fields as needed.
type Config struct {
	// MessageValueBytes is the fixed message payload width.
	MessageValueBytes uint8 `validate:"required,min=1,max=255"`

	// NotificationValueBytes is the fixed notification payload width.
	NotificationValueBytes uint8 `validate:"required,min=1,max=255"`

	// TaskNameBytes is the fixed task name width.
	TaskNameBytes uint8 `validate:"required,min=1,max=255"`

	// BlockSize is the byte size of one heap block.
	BlockSize uint32 `validate:"required,min=8"`

	// KernelRegionBlocks is the block count of the protected (kernel) region.
	KernelRegionBlocks uint32 `validate:"required,min=4"`

	// UserRegionBlocks is the block count of the unprotected (user) region.
	UserRegionBlocks uint32 `validate:"required,min=4"`

	// QueueMinimumLimit is the smallest legal message queue bound.
	QueueMinimumLimit uint32 `validate:"required,min=1"`
}

// DefaultConfig returns a Config populated with the reference kernel's
// default constants, both regions sized to RegionBlocks.
func DefaultConfig() Config {
	return Config{
		MessageValueBytes:       MessageValueBytes,
		NotificationValueBytes:  NotificationValueBytes,
		TaskNameBytes:           TaskNameBytes,
		BlockSize:               BlockSize,
		KernelRegionBlocks:      RegionBlocks,
		UserRegionBlocks:        RegionBlocks,
		QueueMinimumLimit:       QueueMinimumLimit,
	}
}

var validate = validator.New()

// Validate checks the configuration is internally consistent, the way a
// DeviceParams validation pass checks device construction arguments before
// anything is allocated.
func (c Config) Validate() error {
	return validate.Struct(c)
}
