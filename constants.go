package heliogo

import "github.com/ehrlich-b/heliogo/internal/config"

// Re-exported configurable constants (spec §6), for callers that want the
// reference kernel's defaults without importing internal/config directly.
const (
	MessageValueBytes      = config.MessageValueBytes
	NotificationValueBytes = config.NotificationValueBytes
	TaskNameBytes          = config.TaskNameBytes
	BlockSize              = config.BlockSize
	RegionBlocks           = config.RegionBlocks
	QueueMinimumLimit      = config.QueueMinimumLimit
)
