package domain

// Repository es una entrada del catálogo mock de GitHub.
type Repository struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Language    string `json:"language" yaml:"language"`
	Stars       int    `json:"stars" yaml:"stars"`
	Forks       int    `json:"forks" yaml:"forks"`
	Description string `json:"description" yaml:"description"`
	IsPrivate   bool   `json:"is_private" yaml:"is_private"`
}
