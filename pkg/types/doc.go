/*
Package types defines the core data structures shared across Burrow packages.

The types package contains the descriptors for LVM storage objects as reported
by the lvm tool: volume groups, logical volumes, and physical volumes. Sizes
are always in bytes (reports are requested with --units b --nosuffix).

Attribute strings (vg_attr, lv_attr, pv_attr) are kept verbatim; convenience
accessors decode the commonly needed bits (active, opened, writeable).

# Integration Points

  - pkg/lvm: parses lvm report output into these descriptors
  - pkg/inventory: persists InventorySnapshot records
  - cmd/burrow: renders descriptors for CLI output
*/
package types
