package github

// Repository is a repository as returned by the search API.
type Repository struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Topics      []string `json:"topics"`
	Owner       Owner    `json:"owner"`
}

// Owner is the account that owns a repository.
type Owner struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// User is a public GitHub profile. Email is empty unless the user made it
// public.
type User struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Blog     string `json:"blog"`
	Location string `json:"location"`
	HTMLURL  string `json:"html_url"`
}
