/*
Package ports defines the driven ports (interfaces) of syncvar.

These interfaces decouple the binder from the places change events go, allowing
the same wrapped variable to feed logs, metrics and durable journals.

# Key Interfaces

  - Sink: Receives every change of a bound variable (logging, metrics, journals).
  - Journal: Keeps an ordered, per-variable record of changes (Memory or Redis).
*/
package ports
