/*
Package config loads the Burrow agent configuration.

Configuration is a single YAML file with defaults for every field, so an
empty or absent file yields a working agent. Tunables cover the lvm command
cache (binary path, user device list, concurrency budget, read-only retry
budget and delay), logging, the metrics endpoint, and the local data
directory.

Example:

	data_dir: /var/lib/burrow
	metrics_addr: ":9477"
	log:
	  level: debug
	  json: false
	lvm:
	  user_devices:
	    - /dev/sdb
	  max_commands: 10
	  read_only_retries: 25
	  retry_delay: 10ms
*/
package config
