package ports

import (
	"context"

	"github.com/aretw0/syncvar/pkg/domain"
)

// Journal keeps the ordered history of changes of named variables.
type Journal interface {
	// Append stores a change for the variable and returns the stored record.
	Append(ctx context.Context, variable string, change domain.Change) (domain.Record, error)

	// List returns the records of the variable in append order.
	// An unknown variable yields an empty list.
	List(ctx context.Context, variable string) ([]domain.Record, error)

	// Clear removes all records of the variable.
	Clear(ctx context.Context, variable string) error

	// Variables returns the names that currently have records.
	Variables(ctx context.Context) ([]string, error)
}
