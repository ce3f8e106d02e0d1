package support

import (
	"context"

	"villafinder/internal/app/uow"
)

// BeginReadOnlyUnit reuses the unit already bound to ctx or starts a
// read-only one. The returned cleanup is nil when the unit was reused.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	return begin(ctx, factory, uow.TxOptions{ReadOnly: true})
}

// BeginUnit is BeginReadOnlyUnit for writes; the caller commits.
func BeginUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	return begin(ctx, factory, uow.TxOptions{})
}

func begin(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions) (uow.UnitOfWork, context.Context, func(), error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, nil, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := uow.Bind(ctx, unit)
	cleanup := func() {
		_ = unit.Rollback(execCtx)
	}
	return unit, execCtx, cleanup, nil
}
