// Package telemetry records message-flow counters to InfluxDB.
//
// This package manages:
//   - Connection to an InfluxDB v2 server with token authentication
//   - Non-blocking, batched counter writes (published/delivered/dropped)
//   - Connection health monitoring
//
// Telemetry is optional and config-gated; the messaging node runs
// identically with it disabled. Counters are observability data only:
// they carry no delivery guarantees and are dropped if the write buffer
// overflows, in keeping with the node's best-effort model.
//
// Usage:
//
//	tel, err := telemetry.Connect(cfg.Telemetry)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Close()
//
//	tel.MessagePublished("sensor/temp")
//	tel.MessageDropped("sensor/temp", "decode_error")
package telemetry
