/*
Package lvm mediates all interaction with the lvm tool on shared block
storage.

Burrow runs on every node of the cluster, but only one node at a time is the
storage pool master. The master runs lvm with exclusive cluster-wide locking
(locking_type=1); every other node runs it without locking (locking_type=4)
and must tolerate transient failures caused by the master writing
concurrently. This package implements the command cache and concurrency
coordinator sitting between volume lifecycle operations and the external lvm
process.

# Architecture

	┌──────────────────────── pkg/lvm ────────────────────────┐
	│                                                          │
	│  Manager ── lifecycle operations (vgcreate, lvextend, …) │
	│     │                                                    │
	│  Cache ──── locking mode + drain barrier                 │
	│     │       cached device filter / --config text         │
	│     │       staleness detection and retry policy         │
	│     │       concurrency gate (MaxCommands)               │
	│     │                                                    │
	│  Runner ─── one process invocation (rc, stdout, stderr)  │
	│                                                          │
	└──────────────────────────────────────────────────────────┘

The device filter restricts which block devices lvm scans. It is built from
the live multipath device view (pkg/multipath) plus any statically configured
user devices, and cached together with the device snapshot it was built from.
When a command fails and the snapshot no longer matches the live view, the
filter is considered stale: it is rebuilt once and the command retried, in
both locking modes, before the mode retry policy applies.

# Retry policy

Exclusive mode: a failure with a fresh filter is authoritative. This node
holds the pool lock, so no concurrent writer can explain it, and the failure
is returned after a single attempt.

Shared mode: a concurrent writer on the master legitimately causes transient
read failures, so the identical command is retried with a fixed delay up to
ReadOnlyRetries times. The staleness retry does not consume this budget.

# Mode switching

SetMode implements a drain-then-switch barrier: new commands block, in-flight
commands run to completion under the old mode, the cached configuration is
invalidated, and only then are new commands admitted under the new mode. A
command therefore never runs with a configuration built under one mode after
the node switched to the other.

# Usage

	cache, err := lvm.NewCache(lvm.CacheConfig{
		Devices: multipath.New(),
	})
	if err != nil {
		return err
	}

	mgr := lvm.NewManager(cache)
	if err := mgr.CreateVG(ctx, vgName, devices, "storage-domain", 128); err != nil {
		return err
	}

	// On losing the pool master role:
	cache.SetMode(lvm.LockShared)
*/
package lvm
