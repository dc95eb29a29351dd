package resources

import (
	"github.com/brunoga/update"
)

// TimeSeries is a time series resource as returned by the API.
type TimeSeries struct {
	ID                 *int64            `json:"id,omitempty" update:"readonly"`
	ExternalID         *string           `json:"externalId,omitempty"`
	Name               *string           `json:"name,omitempty"`
	IsString           *bool             `json:"isString,omitempty" update:"readonly"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	Unit               *string           `json:"unit,omitempty"`
	AssetID            *int64            `json:"assetId,omitempty"`
	IsStep             *bool             `json:"isStep,omitempty"`
	Description        *string           `json:"description,omitempty"`
	SecurityCategories []int64           `json:"securityCategories,omitempty"`
	DataSetID          *int64            `json:"dataSetId,omitempty"`
	CreatedTime        *int64            `json:"createdTime,omitempty" update:"readonly"`
	LastUpdatedTime    *int64            `json:"lastUpdatedTime,omitempty" update:"readonly"`
}

// Key returns the key selecting ts, preferring the numeric id.
func (ts TimeSeries) Key() (update.ResourceKey, error) {
	return keyOf(ts.ID, ts.ExternalID)
}

var timeSeriesSchema = mustSchemaFor[TimeSeries]()

// TimeSeriesSchema returns the updatable fields of TimeSeries.
func TimeSeriesSchema() *update.Schema { return timeSeriesSchema }

// TimeSeriesUpdate builds a partial update of one time series.
//
//	u, _ := NewTimeSeriesUpdate(update.ID(1))
//	u.Description().Set("blabla").Metadata().Add(map[string]string{"site": "a"})
type TimeSeriesUpdate struct {
	patch *update.Patch
}

// NewTimeSeriesUpdate returns an empty update for the time series selected by key.
func NewTimeSeriesUpdate(key update.ResourceKey, opts ...update.PatchOption) (*TimeSeriesUpdate, error) {
	p, err := update.NewPatch(timeSeriesSchema, key, opts...)
	if err != nil {
		return nil, err
	}
	return &TimeSeriesUpdate{patch: p}, nil
}

// TimeSeriesUpdateFrom returns an update setting every non-zero updatable
// field of ts. The key is taken from ts.
func TimeSeriesUpdateFrom(ts TimeSeries, opts ...update.PatchOption) (*TimeSeriesUpdate, error) {
	key, err := ts.Key()
	if err != nil {
		return nil, err
	}
	p, err := update.PatchFromValue(timeSeriesSchema, key, ts, opts...)
	if err != nil {
		return nil, err
	}
	return &TimeSeriesUpdate{patch: p}, nil
}

// Patch returns the underlying patch.
func (u *TimeSeriesUpdate) Patch() *update.Patch { return u.patch }

func (u *TimeSeriesUpdate) ExternalID() update.ScalarField[*TimeSeriesUpdate, string] {
	return update.NewScalarField[*TimeSeriesUpdate, string](u, u.patch, "externalId")
}

func (u *TimeSeriesUpdate) Name() update.ScalarField[*TimeSeriesUpdate, string] {
	return update.NewScalarField[*TimeSeriesUpdate, string](u, u.patch, "name")
}

func (u *TimeSeriesUpdate) Metadata() update.MapField[*TimeSeriesUpdate, string] {
	return update.NewMapField[*TimeSeriesUpdate, string](u, u.patch, "metadata")
}

func (u *TimeSeriesUpdate) Unit() update.ScalarField[*TimeSeriesUpdate, string] {
	return update.NewScalarField[*TimeSeriesUpdate, string](u, u.patch, "unit")
}

func (u *TimeSeriesUpdate) AssetID() update.ScalarField[*TimeSeriesUpdate, int64] {
	return update.NewScalarField[*TimeSeriesUpdate, int64](u, u.patch, "assetId")
}

func (u *TimeSeriesUpdate) IsStep() update.ScalarField[*TimeSeriesUpdate, bool] {
	return update.NewScalarField[*TimeSeriesUpdate, bool](u, u.patch, "isStep")
}

func (u *TimeSeriesUpdate) Description() update.ScalarField[*TimeSeriesUpdate, string] {
	return update.NewScalarField[*TimeSeriesUpdate, string](u, u.patch, "description")
}

func (u *TimeSeriesUpdate) SecurityCategories() update.ListField[*TimeSeriesUpdate, int64] {
	return update.NewListField[*TimeSeriesUpdate, int64](u, u.patch, "securityCategories")
}

func (u *TimeSeriesUpdate) DataSetID() update.ScalarField[*TimeSeriesUpdate, int64] {
	return update.NewScalarField[*TimeSeriesUpdate, int64](u, u.patch, "dataSetId")
}
