package memory

import (
	"testing"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
	"pgregory.net/rapid"
)

// TestRegionInvariantsUnderRandomOps exercises P3 (block coverage) and P4
// (zeroed payloads) under arbitrary interleavings of allocate/free, the same
// way the teacher would fuzz a queue's ring-buffer bookkeeping.
func TestRegionInvariantsUnderRandomOps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const totalBlocks = 64
		r, err := NewRegion("rapid", 16, totalBlocks, interfaces.NoOpObserver{}, nil)
		if err != nil {
			rt.Fatal(err)
		}
		defer r.Close()

		var live []Address
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			if len(live) == 0 || rapid.Bool().Draw(rt, "doAlloc") {
				size := rapid.Uint32Range(1, 64).Draw(rt, "size")
				addr, err := r.Allocate(size, false)
				if err == nil {
					payload, perr := r.Payload(addr)
					if perr != nil {
						rt.Fatalf("payload lookup failed right after allocate: %v", perr)
					}
					for _, b := range payload {
						if b != 0 {
							rt.Fatalf("freshly allocated payload not zeroed")
						}
					}
					live = append(live, addr)
				}
			} else {
				idx := rapid.IntRange(0, len(live)-1).Draw(rt, "idx")
				addr := live[idx]
				if err := r.Free(addr, false); err != nil {
					rt.Fatalf("free of live address failed: %v", err)
				}
				live = append(live[:idx], live[idx+1:]...)
			}

			if !r.checkIntegrity() {
				rt.Fatalf("region lost block coverage invariant")
			}
		}
	})
}

// TestRegionPrivilegeIsolationUnderRandomOps confirms P5: an unprivileged
// Free call can never release a protected allocation, regardless of history.
func TestRegionPrivilegeIsolationUnderRandomOps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r, err := NewRegion("rapid-priv", 16, 64, interfaces.NoOpObserver{}, nil)
		if err != nil {
			rt.Fatal(err)
		}
		defer r.Close()

		addr, err := r.Allocate(32, true)
		if err != nil {
			rt.Skip("region full")
		}

		attempts := rapid.IntRange(1, 5).Draw(rt, "attempts")
		for i := 0; i < attempts; i++ {
			if err := r.Free(addr, false); err != ErrPrivilege {
				rt.Fatalf("expected ErrPrivilege on unprivileged free, got %v", err)
			}
		}
		if err := r.Free(addr, true); err != nil {
			rt.Fatalf("privileged free of protected address should succeed: %v", err)
		}
	})
}
