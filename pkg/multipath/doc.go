/*
Package multipath enumerates the multipath block devices visible to this
host.

The enumerator scans the device-mapper directory (/dev/mapper) and reports
the full device paths, skipping the device-mapper control node. The result
feeds the lvm device filter: only devices reported here (plus statically
configured user devices) are visible to lvm commands.

A scan failure is propagated as an error, never as an empty device list. An
empty list would silently build a reject-everything filter and hide every
storage domain on this host.
*/
package multipath
