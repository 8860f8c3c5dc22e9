// Package workflow implements the fan-out/fan-in coordination core for a
// council run. A single query is dispatched to every registered analyst
// worker concurrently, a fan-in barrier collects one outcome per worker,
// and once all workers have reported the accumulated results are handed to
// a final aggregator worker that produces one synthesized text.
//
// # Architecture
//
//	Query -> Coordinator -> Dispatcher -> Workers (concurrent)
//	                                          |
//	                                          v
//	                                       Barrier  (waits for all N)
//	                                          |
//	                                          v
//	                                      Aggregator (runs once)
//
// Progress is observable in real time through the run's event stream,
// an ordered multi-producer single-consumer channel of typed [Event]
// values. Events from the same worker arrive in causal order; events
// from different workers interleave freely; the terminal event is
// always last.
//
// # Failure Policy
//
// A failed worker is recorded as data (a failure outcome) rather than
// aborting the run: the barrier releases once every registered worker has
// reported, success or failure, so one bad analysis never blocks the rest.
// Only an aggregator failure, a bad registry, or an internal protocol
// violation is fatal to the run.
package workflow
