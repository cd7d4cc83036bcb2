package domain

// Well-known entity types, always registered.
const (
	TypeUser       = "user"
	TypeFunnel     = "funnel"
	TypeStep       = "step"
	TypePayment    = "payment"
	TypeTemplate   = "template"
	TypeForm       = "form"
	TypeExperiment = "experiment"
)

// TypeRegistry validates entity type strings at the write boundary. It is
// built once from configuration and passed into services explicitly; there
// is no process-wide mutable registry.
type TypeRegistry struct {
	types map[string]struct{}
}

// NewTypeRegistry returns a registry containing the well-known types plus
// any extra types supplied by configuration.
func NewTypeRegistry(extra ...string) *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]struct{})}
	for _, t := range []string{
		TypeUser, TypeFunnel, TypeStep, TypePayment,
		TypeTemplate, TypeForm, TypeExperiment,
	} {
		r.types[t] = struct{}{}
	}
	for _, t := range extra {
		if t != "" {
			r.types[t] = struct{}{}
		}
	}
	return r
}

// IsRegistered reports whether the type may be used for new entities.
func (r *TypeRegistry) IsRegistered(entityType string) bool {
	_, ok := r.types[entityType]
	return ok
}

// Types returns the registered type names in unspecified order.
func (r *TypeRegistry) Types() []string {
	out := make([]string, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}
	return out
}
