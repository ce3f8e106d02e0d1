package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"villafinder/internal/app/uow"
	domainscoops "villafinder/internal/domain/scoops"
	domainvillas "villafinder/internal/domain/villas"
)

// Factory wires Mongo sessions into the generic UnitOfWork interface. Writes
// run in a transaction; read-only units use a plain causally consistent
// session so page reads work against standalone servers too.
type Factory struct {
	DB *mongo.Database

	VillasRepo domainvillas.Repository
	ScoopsRepo domainscoops.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil || f.VillasRepo == nil || f.ScoopsRepo == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession(options.Session().SetCausalConsistency(true))
	if err != nil {
		return nil, err
	}
	unit := &Unit{session: session, villas: f.VillasRepo, scoops: f.ScoopsRepo}
	if opts.ReadOnly {
		return unit, nil
	}
	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	unit.inTxn = true
	return unit, nil
}

type Unit struct {
	session mongo.Session
	inTxn   bool
	ended   bool

	villas domainvillas.Repository
	scoops domainscoops.Repository
}

func (u *Unit) Villas() domainvillas.Repository { return u.villas }

func (u *Unit) Scoops() domainscoops.Repository { return u.scoops }

func (u *Unit) Commit(ctx context.Context) error {
	if u.ended {
		return nil
	}
	defer u.end(ctx)
	if !u.inTxn {
		return nil
	}
	return u.session.CommitTransaction(ctx)
}

// Rollback aborts an open transaction; after Commit it does nothing.
func (u *Unit) Rollback(ctx context.Context) error {
	if u.ended {
		return nil
	}
	defer u.end(ctx)
	if !u.inTxn {
		return nil
	}
	return u.session.AbortTransaction(ctx)
}

func (u *Unit) end(ctx context.Context) {
	u.ended = true
	u.session.EndSession(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.ContextInjector = (*Unit)(nil)
