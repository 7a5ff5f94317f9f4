package models

// User is a borrower identity record.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch carries the fields of a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// IsEmpty reports whether the patch sets no field at all.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}
