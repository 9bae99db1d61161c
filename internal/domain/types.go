package domain

// Operator identifies the admin performing an action. Identity verification
// happens upstream; this only carries the claims the middleware extracted.
type Operator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (o Operator) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	if o.ID != "" {
		return o.ID
	}
	return "admin"
}
