/*
Package syncvar observes every mutation of a nested map and reports it as a
change event carrying the dotted key path of the mutated key.

It is a building block for state synchronization: bind a variable once, mutate it
through the returned tree, and every applied change flows to the configured sinks
(logs, Prometheus metrics, memory or Redis journals). Rejected mutations (writing a
non-writable property, deleting a non-configurable one) fail exactly as they
would on an unobserved value and produce no event.

# Concept

The engine lives in pkg/proxytree. A bound value is deep copied into a tree of
*proxytree.Node values; every nested map becomes a Node, including maps that are
assigned later. Each Node knows its path from the root sentinel ("____root"), so a
write to grid.cells.a produces the path "____root.cells.a".

The Binder associates names with trees and fans changes out to ports.Sink
implementations. Connect accepts a transport configuration but performs no I/O:
the returned Connection is a placeholder for a future synchronization transport.

# Usage

	package main

	import (
		"log"

		"github.com/aretw0/syncvar"
		"github.com/aretw0/syncvar/pkg/proxytree"
	)

	func main() {
		binder := syncvar.New()

		grid, err := binder.Bind("grid", map[string]any{"cells": map[string]any{}})
		if err != nil {
			log.Fatal(err)
		}

		cells, _ := grid.Get("cells")
		// Logs: msg=change variable=grid path=____root.cells.a type=set value=1
		_ = cells.(*proxytree.Node).Set("a", 1)
	}

A Node performs no locking; serialize access when sharing it between goroutines.
*/
package syncvar
