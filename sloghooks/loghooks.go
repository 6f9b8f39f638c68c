// Package sloghooks reports fallbackcache events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/fallbackcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	PrimaryFailEvery uint64
	FallbackHitEvery uint64
	SelfHealEvery    uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	primaryFailCtr atomic.Uint64
	fallbackHitCtr atomic.Uint64
	selfHealCtr    atomic.Uint64
}

var _ fallbackcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n <= 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) PrimaryFailed(key string, err error) {
	if h.l == nil || !sample(h.opts.PrimaryFailEvery, &h.primaryFailCtr) {
		return
	}
	h.l.Warn("fallbackcache.primary_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) FallbackHit(key string) {
	if h.l == nil || !sample(h.opts.FallbackHitEvery, &h.fallbackHitCtr) {
		return
	}
	h.l.Info("fallbackcache.fallback_hit",
		"key", h.redact(key))
}

func (h *Hooks) FallbackMiss(key string, secondary bool) {
	if h.l == nil {
		return
	}
	h.l.Warn("fallbackcache.fallback_miss",
		"key", h.redact(key),
		"secondary", secondary)
}

func (h *Hooks) RefreshError(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("fallbackcache.refresh_error",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("fallbackcache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("fallbackcache.provider_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) GenSnapshotError(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("fallbackcache.gen_snapshot_error",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) GenBumpError(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("fallbackcache.gen_bump_error",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) DeleteOutage(key string, bumpErr, delErr error) {
	if h.l == nil {
		return
	}
	h.l.Error("fallbackcache.delete_outage",
		"key", h.redact(key),
		"bump_err", bumpErr,
		"del_err", delErr)
}
