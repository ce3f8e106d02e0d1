package uow

import (
	"context"

	domainscoops "villafinder/internal/domain/scoops"
	domainvillas "villafinder/internal/domain/villas"
)

// UnitOfWork scopes repository access to one transaction boundary.
type UnitOfWork interface {
	Villas() domainvillas.Repository
	Scoops() domainscoops.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries. Page reads run ReadOnly.
type TxOptions struct {
	ReadOnly bool
}

// ContextInjector is implemented by units that carry driver state (sessions,
// transactions) repositories need to find in the context.
type ContextInjector interface {
	InjectContext(ctx context.Context) context.Context
}

// Bind returns ctx carrying unit and any driver state it injects.
func Bind(ctx context.Context, unit UnitOfWork) context.Context {
	if injector, ok := unit.(ContextInjector); ok {
		ctx = injector.InjectContext(ctx)
	}
	return ContextWithUnitOfWork(ctx, unit)
}
