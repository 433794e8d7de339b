package domain

// User is the identity resolved by the auth middleware from a verified token.
type User struct {
	Id    UserId
	Email string
	Admin bool
}

// CanModify reports whether u may edit or delete content owned by owner.
func (u User) CanModify(owner UserId) bool {
	return u.Admin || u.Id == owner
}
