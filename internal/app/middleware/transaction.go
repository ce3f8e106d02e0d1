package middleware

import (
	"context"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/uow"
)

// TxOptionsProvider picks transaction options per command.
type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// Transaction runs each command inside a fresh unit of work. Commands that
// arrive with a unit already bound to the context join it instead.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if _, ok := uow.FromContext(ctx); ok {
				return nextFn(ctx, cmd)
			}
			opts := uow.TxOptions{}
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			execCtx := uow.Bind(ctx, unit)
			committed := false
			defer func() {
				if !committed {
					_ = unit.Rollback(execCtx)
				}
			}()

			res, err := nextFn(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}
