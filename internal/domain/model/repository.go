package model

// Repository identifies the GitHub repository whose issues are watched.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form used as a storage key and in logs.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
