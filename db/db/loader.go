package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/vikstrous/dataloadgen"
)

// RefSource is the batch-fetch surface the loaders run on. Store satisfies it.
type RefSource interface {
	DataLoaderGetVehicleRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*VehicleRef, error)
	DataLoaderGetContractRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*ContractRef, error)
}

// RefLoader batches reference hydration so a page of trips resolves its
// vehicles and contracts in one query each. Hydration is read-side
// denormalization only; ownership was already checked on the parent fetch.
type RefLoader struct {
	VehicleRefs  *dataloadgen.Loader[uuid.UUID, *VehicleRef]
	ContractRefs *dataloadgen.Loader[uuid.UUID, *ContractRef]
}

func NewRefLoader(source RefSource) *RefLoader {
	return &RefLoader{
		VehicleRefs:  dataloadgen.NewMappedLoader(source.DataLoaderGetVehicleRefs),
		ContractRefs: dataloadgen.NewMappedLoader(source.DataLoaderGetContractRefs),
	}
}

// HydrateTrips fills the embedded vehicle and contract summaries on a
// page of trips. All keys are scheduled before any thunk resolves, so the
// whole page shares one batch per loader. A dangling reference hydrates to
// nil rather than failing the listing.
func (l *RefLoader) HydrateTrips(ctx context.Context, trips []Trip) error {
	vehicleThunks := make([]func() (*VehicleRef, error), len(trips))
	contractThunks := make([]func() (*ContractRef, error), len(trips))
	for i := range trips {
		vehicleThunks[i] = l.VehicleRefs.LoadThunk(ctx, trips[i].VehicleID)
		if trips[i].ContractID != nil {
			contractThunks[i] = l.ContractRefs.LoadThunk(ctx, *trips[i].ContractID)
		}
	}
	for i := range trips {
		if ref, err := vehicleThunks[i](); err == nil {
			trips[i].Vehicle = ref
		}
		if contractThunks[i] != nil {
			if ref, err := contractThunks[i](); err == nil {
				trips[i].Contract = ref
			}
		}
	}
	return ctx.Err()
}

// HydrateContracts fills the embedded vehicle summaries on a page of contracts.
func (l *RefLoader) HydrateContracts(ctx context.Context, contracts []Contract) error {
	thunks := make([]func() (*VehicleRef, error), len(contracts))
	for i := range contracts {
		thunks[i] = l.VehicleRefs.LoadThunk(ctx, contracts[i].VehicleID)
	}
	for i := range contracts {
		if ref, err := thunks[i](); err == nil {
			contracts[i].Vehicle = ref
		}
	}
	return ctx.Err()
}
