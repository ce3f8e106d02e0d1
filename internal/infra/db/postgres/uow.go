package postgres

import (
	"context"
	"database/sql"
	"errors"

	"villafinder/internal/app/uow"
	domainscoops "villafinder/internal/domain/scoops"
	domainvillas "villafinder/internal/domain/villas"
)

var ErrUnitOfWorkNotConfigured = errors.New("postgres: unit of work factory missing database")

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type txKey struct{}

// conn returns the transaction bound to ctx, or db.
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return db
}

// Factory opens one SQL transaction per unit. Read-only units ask the server
// for a READ ONLY transaction.
type Factory struct {
	DB *sql.DB

	VillasRepo domainvillas.Repository
	ScoopsRepo domainscoops.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil || f.VillasRepo == nil || f.ScoopsRepo == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	tx, err := f.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: opts.ReadOnly})
	if err != nil {
		return nil, err
	}
	return &Unit{tx: tx, villas: f.VillasRepo, scoops: f.ScoopsRepo}, nil
}

type Unit struct {
	tx   *sql.Tx
	done bool

	villas domainvillas.Repository
	scoops domainscoops.Repository
}

func (u *Unit) Villas() domainvillas.Repository { return u.villas }

func (u *Unit) Scoops() domainscoops.Repository { return u.scoops }

func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Commit()
}

// Rollback after Commit is a no-op.
func (u *Unit) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback()
}

// InjectContext exposes the transaction to the repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, u.tx)
}

var _ uow.ContextInjector = (*Unit)(nil)
