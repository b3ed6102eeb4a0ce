/*
Package observability provides the sinks that turn change events into logs,
metrics and journal records.

  - LogSink writes every raw change with slog (the binder default).
  - Metrics counts changes per variable and type in Prometheus.
  - JournalSink appends every change to a ports.Journal.
*/
package observability
