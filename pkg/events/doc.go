/*
Package events provides an in-process publish/subscribe broker for agent
events.

The broker decouples the components that observe storage state changes from
the components that react to them. The device watcher publishes
devices.changed when the multipath view differs from the last scan, the
threshold monitor publishes threshold.exceeded when a drive crosses its block
threshold, and the inventory loop publishes inventory.saved after each
persisted snapshot. Subscribers receive events on buffered channels; a slow
subscriber drops events rather than blocking publishers.

Usage:

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	go func() {
		for event := range sub {
			// react to event
		}
	}()

	broker.Publish(events.New(events.EventDevicesChanged, "device view changed", nil))
*/
package events
