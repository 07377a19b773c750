package heliogo

import (
	"testing"

	"github.com/ehrlich-b/heliogo/internal/config"
)

func TestGetSystemInfoReflectsConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UserRegionBlocks = 256

	si := GetSystemInfo(cfg)
	if si.ProductName != ProductName {
		t.Errorf("expected product name %q, got %q", ProductName, si.ProductName)
	}
	if si.UserBlocks != 256 {
		t.Errorf("expected UserBlocks=256, got %d", si.UserBlocks)
	}
	if si.BlockSize != cfg.BlockSize {
		t.Errorf("expected BlockSize=%d, got %d", cfg.BlockSize, si.BlockSize)
	}
}

func TestSystemInfoVersionString(t *testing.T) {
	si := SystemInfo{VersionMajor: 1, VersionMinor: 2, VersionPatch: 3}
	if got := si.Version(); got != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", got)
	}
}
