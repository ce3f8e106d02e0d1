package memory

import (
	"context"
	"errors"

	"villafinder/internal/app/uow"
	domainscoops "villafinder/internal/domain/scoops"
	domainvillas "villafinder/internal/domain/villas"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	VillasRepo domainvillas.Repository
	ScoopsRepo domainscoops.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided but
// the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.VillasRepo == nil || f.ScoopsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{villas: f.VillasRepo, scoops: f.ScoopsRepo, readOnly: opts.ReadOnly}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	villas   domainvillas.Repository
	scoops   domainscoops.Repository
	readOnly bool
	done     bool
}

func (u *Unit) Villas() domainvillas.Repository { return u.villas }

func (u *Unit) Scoops() domainscoops.Repository { return u.scoops }

// ReadOnly reports the options the unit was started with.
func (u *Unit) ReadOnly() bool { return u.readOnly }

func (u *Unit) Commit(ctx context.Context) error {
	u.done = true
	return nil
}

// Rollback after Commit is a no-op.
func (u *Unit) Rollback(ctx context.Context) error {
	u.done = true
	return nil
}

var _ uow.UoWFactory = Factory{}
