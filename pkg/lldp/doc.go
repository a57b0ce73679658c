/*
Package lldp reports link-layer neighbor information via lldptool.

The parser decodes the text report produced by `lldptool get-tlv -n -i
<iface>` into typed TLV records: mandatory TLVs (Chassis ID, Port ID, Time to
Live, system identity) and the common organizationally specific ones (Port
VLAN ID, Link Aggregation, Maximum Frame Size). Parsing is pure and
stateless; unrecognized TLV blocks are skipped rather than failing the whole
report.

Tool wraps the lldptool binary itself: ping the daemon, enable or disable
LLDP per interface, and fetch decoded reports. Commands run through the same
process execution boundary as lvm commands.
*/
package lldp
