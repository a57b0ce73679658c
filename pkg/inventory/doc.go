/*
Package inventory persists the last-seen storage inventory of this host.

The store keeps the volume group, logical volume, and physical volume
descriptors from the most recent successful scan in a local BoltDB file,
together with the device list and scan time. It exists for operators: when
the shared storage becomes unreachable, `burrow inventory` can still show
what this host last saw.

The store is strictly a debugging aid. The lvm command cache never reads it;
its own state (filter, configuration text, locking mode) is in-memory only
and rebuilt from the live device view after every restart.
*/
package inventory
