package preview

import "sync"

// Overrides maps preview identities to projection override codes. An absent
// entry means "use the document's default projection".
type Overrides struct {
	codes sync.Map // Identity -> string
}

// NewOverrides creates an empty override store.
func NewOverrides() *Overrides {
	return &Overrides{}
}

// Set stores a projection code for an identity, overwriting any prior value.
// Codes are not validated here; the command surface only offers validated
// choices.
func (o *Overrides) Set(identity Identity, code string) {
	o.codes.Store(identity, code)
}

// Clear removes any stored code. No-op if absent.
func (o *Overrides) Clear(identity Identity) {
	o.codes.Delete(identity)
}

// Get returns the stored code for an identity.
func (o *Overrides) Get(identity Identity) (string, bool) {
	val, ok := o.codes.Load(identity)
	if !ok {
		return "", false
	}
	return val.(string), true
}
