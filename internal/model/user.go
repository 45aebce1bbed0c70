package model

// Role values stored in the users file.  Accounts without a role are
// treated as RoleStandard.
const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

// User represents one entry of the user store.  The store file is a JSON
// object keyed by username, so Username is not serialized as a field; the
// repository fills it in from the key when loading.
//
// Fields:
//
//   - Username: unique identifier, key of the users mapping.
//   - PasswordDigest: hex SHA-256 digest of the password, or a bcrypt hash
//     for externally provisioned accounts.
//   - Role: admin or standard.
//   - Points: reward balance, never negative.
type User struct {
	Username       string `json:"-"`
	PasswordDigest string `json:"password"`
	Role           string `json:"role"`
	Points         int    `json:"points"`
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleStandard
}
