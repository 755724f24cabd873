// Package telemetry defines the evolution strategies' observation hooks —
// on_generation, called once a generation's offspring have been merged
// into a population, and on_result, called once a run terminates — plus
// ConsoleTelemetry, a structured-logging adapter over cosmossdk.io/log.
package telemetry
