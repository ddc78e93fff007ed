package observability

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and cache events to a logger at debug level.
// It implements both PipelineHooks and CacheHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks writing to l. A nil logger discards events.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.New(io.Discard)
	}
	return &LogHooks{logger: l}
}

// Install registers h as both the pipeline and the cache hooks.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnRenderStart(_ context.Context, cards int, spec string) {
	h.logger.Debug("render start", "cards", cards, "spec", spec)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, cards int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "cards", cards, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render done", "cards", cards, "duration", d)
}

func (h *LogHooks) OnAssembleStart(_ context.Context, pages int) {
	h.logger.Debug("assemble start", "pages", pages)
}

func (h *LogHooks) OnAssembleComplete(_ context.Context, pages, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("assemble failed", "pages", pages, "duration", d, "err", err)
		return
	}
	h.logger.Debug("assemble done", "pages", pages, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
