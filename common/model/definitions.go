package model

// ----------------------------------------------------------------------
// Directory data structures
// ----------------------------------------------------------------------

// Contact is a directory entry as fetched from the upstream. It is never
// mutated after the fetch; a reload replaces the whole set.
type Contact struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Picture string `json:"picture"`
}

// ContactView is a Contact merged with its current favorite flag. It is
// computed on every read and never stored.
type ContactView struct {
	Contact
	IsFavorite bool `json:"isFavorite"`
}

// Page is one slice of the directory plus the paging metadata the UI needs.
type Page struct {
	Contacts    []ContactView `json:"contacts"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

// ----------------------------------------------------------------------
// Upstream (random user API) wire format
// ----------------------------------------------------------------------

// UserResponse is the envelope returned by GET {baseURL}?results=N.
// Results is a pointer so a payload without the field can be told apart
// from an empty batch.
type UserResponse struct {
	Results *[]UserRecord `json:"results"`
}

// UserRecord is a single upstream user (partial).
type UserRecord struct {
	Login   UserLogin   `json:"login"`
	Name    UserName    `json:"name"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
	Picture UserPicture `json:"picture"`
}

// UserLogin holds the stable identifier of an upstream user.
type UserLogin struct {
	UUID string `json:"uuid"`
}

// UserName is the upstream name block.
type UserName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// UserPicture holds the upstream portrait URLs.
type UserPicture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ToContact maps an upstream record onto a Contact.
func (r UserRecord) ToContact() Contact {
	return Contact{
		ID:      r.Login.UUID,
		Name:    r.Name.First + " " + r.Name.Last,
		Email:   r.Email,
		Phone:   r.Phone,
		Picture: r.Picture.Large,
	}
}
