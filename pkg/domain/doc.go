/*
Package domain contains the core types shared by the syncvar engine and its collaborators.

It defines the change event emitted for every applied mutation of a wrapped tree,
the property attributes carried by definitions, and the sentinel errors used across
packages. This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Change: A single applied mutation (Path, Type, Value, Attributes).
  - ChangeType: The kind of mutation (set, delete, define_property).
  - Attributes: Property attributes (writable, enumerable, configurable) of a definition.
  - Record: A Change stamped with an ID and timestamp, as kept by journals.
*/
package domain
