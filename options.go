package update

import "github.com/brunoga/update/internal/core"

// Copier returns a deep copy of v. Patches copy every recorded value with
// their Copier so later changes by the caller do not leak into the patch.
type Copier func(v any) (any, error)

var (
	// CopyStructure copies with github.com/mitchellh/copystructure. It is the
	// default.
	CopyStructure Copier = core.CopyStructure
	// CopyClone copies with github.com/huandu/go-clone.
	CopyClone Copier = core.CopyClone
	// CopyDeepcopy copies with github.com/barkimedes/go-deepcopy.
	CopyDeepcopy Copier = core.CopyDeepcopy
)

// PatchOption configures a Patch at construction time.
type PatchOption interface {
	applyPatch(c *patchConfig)
}

type patchConfig struct {
	copier Copier
}

func defaultPatchConfig() patchConfig {
	return patchConfig{copier: CopyStructure}
}

type copierOption Copier

func (o copierOption) applyPatch(c *patchConfig) {
	if o != nil {
		c.copier = Copier(o)
	}
}

// WithCopier selects the deep-copy strategy used when recording values.
func WithCopier(c Copier) PatchOption {
	return copierOption(c)
}
