/*
Package health provides the agent's health checks and their HTTP endpoint.

A Registry aggregates named checks and serves their combined result on
/healthz: 200 when every check passes, 503 otherwise, with a JSON body
breaking down the individual results.

The agent registers three checks at startup:

  - lvm: the lvm binary responds to `lvm version` through the command runner
  - device_dir: the multipath device directory is readable
  - data_dir: the data directory accepts writes for the inventory store

The checks probe the same paths the agent exercises at runtime, so a failing
/healthz points at the exact collaborator that broke.
*/
package health
