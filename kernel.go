package heliogo

import (
	"fmt"
	"time"

	"github.com/ehrlich-b/heliogo/internal/config"
	"github.com/ehrlich-b/heliogo/internal/interfaces"
	"github.com/ehrlich-b/heliogo/internal/logging"
	"github.com/ehrlich-b/heliogo/internal/memory"
	"github.com/ehrlich-b/heliogo/internal/mq"
	"github.com/ehrlich-b/heliogo/internal/notify"
	"github.com/ehrlich-b/heliogo/internal/sysflags"
	"github.com/ehrlich-b/heliogo/internal/task"
	"github.com/ehrlich-b/heliogo/sched"
)

// Kernel is the single owned value a caller constructs to use the rest of
// this package: the protected and user memory regions, the task registry,
// the notification slot, the scheduler, and the metrics observer they all
// report into. Every global the reference kernel keeps as a static lives
// here as a field instead, generalized from the teacher's CreateAndServe /
// StopAndDelete Device lifecycle.
type Kernel struct {
	cfg     config.Config
	logger  *logging.Logger
	metrics *Metrics

	Kernel *memory.Region
	User   *memory.Region

	Flags    *sysflags.Flags
	Tasks    *task.Registry
	Notify   *notify.Slot
	Scheduler *sched.Scheduler
}

// Params configures a Kernel at construction time. The zero value is valid:
// a zero Config is replaced by DefaultConfig, a nil Logger by an error-level
// logger, and a nil Tick by a WallClock. CPUAffinity is passed through as
// given, so its zero value pins the scheduler loop to CPU 0.
type Params struct {
	Config      config.Config
	Logger      *logging.Logger
	Tick        interfaces.TickSource
	CPUAffinity int // -1 disables pinning, the sched.DefaultOptions() default
}

// New validates params.Config and constructs a Kernel: two memory.Regions
// sized per the config, a task registry and notification slot wired to the
// kernel region and user region respectively, and a scheduler driven by
// Tick (a WallClock if the caller didn't supply one).
func New(params Params) (*Kernel, error) {
	cfg := params.Config
	if (cfg == config.Config{}) {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapError("New", err)
	}

	logger := params.Logger
	if logger == nil {
		logger = logging.NewLogger(&logging.Config{Level: logging.LevelError})
	}

	metrics := NewMetrics()

	kernelRegion, err := memory.NewRegion("kernel", cfg.BlockSize, cfg.KernelRegionBlocks, metrics, logger)
	if err != nil {
		return nil, WrapError("New", err)
	}
	userRegion, err := memory.NewRegion("user", cfg.BlockSize, cfg.UserRegionBlocks, metrics, logger)
	if err != nil {
		kernelRegion.Close()
		return nil, WrapError("New", err)
	}

	flags := &sysflags.Flags{}
	registry := task.NewRegistry(kernelRegion, userRegion, flags, int(cfg.TaskNameBytes), int(cfg.NotificationValueBytes), logger)
	slot := notify.NewSlot(registry, userRegion, uint32(cfg.NotificationValueBytes))

	tick := params.Tick
	if tick == nil {
		tick = NewWallClock()
	}

	opts := sched.DefaultOptions()
	opts.CPUAffinity = params.CPUAffinity

	scheduler := sched.New(registry, flags, tick, metrics, logger, opts)

	return &Kernel{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		Kernel:    kernelRegion,
		User:      userRegion,
		Flags:     flags,
		Tasks:     registry,
		Notify:    slot,
		Scheduler: scheduler,
	}, nil
}

// Config returns the validated configuration this Kernel was built from.
func (k *Kernel) Config() config.Config { return k.cfg }

// Metrics returns the Kernel-wide Observer, the same one wired into both
// memory regions and the scheduler.
func (k *Kernel) Metrics() *Metrics { return k.metrics }

// SystemInfo reports this Kernel's static geometry (spec §6).
func (k *Kernel) SystemInfo() SystemInfo { return GetSystemInfo(k.cfg) }

// NewQueue creates a message queue backed by this Kernel's user region,
// with the configured message value width.
func (k *Kernel) NewQueue(minimumLimit, limit uint32) (*mq.Queue, bool) {
	return mq.Create(k.User, uint32(k.cfg.MessageValueBytes), minimumLimit, limit)
}

// Start runs the scheduler loop until Stop is called or the task registry
// is empty, the way StopAndDelete cancels a Device's running queue runners.
// It blocks the calling goroutine; callers that want non-blocking use
// should run it in its own goroutine.
func (k *Kernel) Start() {
	k.Scheduler.StartScheduler()
}

// Stop requests the scheduler loop exit after its current pass; task states
// are left unchanged. This mirrors StopAndDelete's teardown order: stop
// dispatch first, then let the caller free regions at its own pace.
func (k *Kernel) Stop() {
	k.Scheduler.SuspendAll()
}

// Close releases both memory regions' backing storage. It does not stop a
// running scheduler; call Stop first.
func (k *Kernel) Close() error {
	var errs []error
	if err := k.User.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := k.Kernel.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("heliogo: close: %v", errs)
	}
	return nil
}

// WallClock is a free-running interfaces.TickSource backed by the
// monotonic clock, the fallback tick source for a Kernel that isn't wired
// to a hardware or io_uring timer. It reports elapsed milliseconds since
// construction, truncated to uint32 (spec §5's tick counter is explicitly
// allowed to wrap).
type WallClock struct {
	start time.Time
}

// NewWallClock returns a WallClock starting now.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now implements interfaces.TickSource.
func (w *WallClock) Now() uint32 {
	return uint32(time.Since(w.start).Milliseconds())
}
