package resources

import (
	"github.com/brunoga/update"
)

// Asset is an asset resource as returned by the API.
type Asset struct {
	ID               *int64            `json:"id,omitempty" update:"readonly"`
	ExternalID       *string           `json:"externalId,omitempty"`
	Name             *string           `json:"name,omitempty"`
	ParentID         *int64            `json:"parentId,omitempty"`
	ParentExternalID *string           `json:"parentExternalId,omitempty"`
	Description      *string           `json:"description,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Source           *string           `json:"source,omitempty"`
	Labels           []Label           `json:"labels,omitempty"`
	DataSetID        *int64            `json:"dataSetId,omitempty"`
	RootID           *int64            `json:"rootId,omitempty" update:"readonly"`
	CreatedTime      *int64            `json:"createdTime,omitempty" update:"readonly"`
	LastUpdatedTime  *int64            `json:"lastUpdatedTime,omitempty" update:"readonly"`
}

// Label references a label definition by external id.
type Label struct {
	ExternalID string `json:"externalId"`
}

// Key returns the key selecting a, preferring the numeric id.
func (a Asset) Key() (update.ResourceKey, error) {
	return keyOf(a.ID, a.ExternalID)
}

var assetSchema = mustSchemaFor[Asset]()

// AssetSchema returns the updatable fields of Asset.
func AssetSchema() *update.Schema { return assetSchema }

// AssetUpdate builds a partial update of one asset.
type AssetUpdate struct {
	patch *update.Patch
}

// NewAssetUpdate returns an empty update for the asset selected by key.
func NewAssetUpdate(key update.ResourceKey, opts ...update.PatchOption) (*AssetUpdate, error) {
	p, err := update.NewPatch(assetSchema, key, opts...)
	if err != nil {
		return nil, err
	}
	return &AssetUpdate{patch: p}, nil
}

// AssetUpdateFrom returns an update setting every non-zero updatable field
// of a. The key is taken from a.
func AssetUpdateFrom(a Asset, opts ...update.PatchOption) (*AssetUpdate, error) {
	key, err := a.Key()
	if err != nil {
		return nil, err
	}
	p, err := update.PatchFromValue(assetSchema, key, a, opts...)
	if err != nil {
		return nil, err
	}
	return &AssetUpdate{patch: p}, nil
}

// Patch returns the underlying patch.
func (u *AssetUpdate) Patch() *update.Patch { return u.patch }

func (u *AssetUpdate) ExternalID() update.ScalarField[*AssetUpdate, string] {
	return update.NewScalarField[*AssetUpdate, string](u, u.patch, "externalId")
}

func (u *AssetUpdate) Name() update.ScalarField[*AssetUpdate, string] {
	return update.NewScalarField[*AssetUpdate, string](u, u.patch, "name")
}

func (u *AssetUpdate) ParentID() update.ScalarField[*AssetUpdate, int64] {
	return update.NewScalarField[*AssetUpdate, int64](u, u.patch, "parentId")
}

func (u *AssetUpdate) ParentExternalID() update.ScalarField[*AssetUpdate, string] {
	return update.NewScalarField[*AssetUpdate, string](u, u.patch, "parentExternalId")
}

func (u *AssetUpdate) Description() update.ScalarField[*AssetUpdate, string] {
	return update.NewScalarField[*AssetUpdate, string](u, u.patch, "description")
}

func (u *AssetUpdate) Metadata() update.MapField[*AssetUpdate, string] {
	return update.NewMapField[*AssetUpdate, string](u, u.patch, "metadata")
}

func (u *AssetUpdate) Source() update.ScalarField[*AssetUpdate, string] {
	return update.NewScalarField[*AssetUpdate, string](u, u.patch, "source")
}

func (u *AssetUpdate) Labels() update.ListField[*AssetUpdate, Label] {
	return update.NewListField[*AssetUpdate, Label](u, u.patch, "labels")
}

func (u *AssetUpdate) DataSetID() update.ScalarField[*AssetUpdate, int64] {
	return update.NewScalarField[*AssetUpdate, int64](u, u.patch, "dataSetId")
}
