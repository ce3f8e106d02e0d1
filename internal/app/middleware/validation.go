package middleware

import (
	"context"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/queries"
)

type Validator interface {
	Validate(ctx context.Context, message any) error
}

// SelfValidating messages check their own fields.
type SelfValidating interface {
	Validate() error
}

// SelfValidator delegates to messages implementing SelfValidating and lets
// every other message through.
type SelfValidator struct{}

func (SelfValidator) Validate(_ context.Context, message any) error {
	if v, ok := message.(SelfValidating); ok {
		return v.Validate()
	}
	return nil
}

func Validation(v Validator) CommandMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, err
			}
			return nextFn(ctx, cmd)
		})
	}
}

func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return nextFn(ctx, q)
		})
	}
}
