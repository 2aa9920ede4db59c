package models

// ProfileRole is the role label persisted on a profile row.
type ProfileRole string

const (
	RoleStaff   ProfileRole = "staff"
	RoleStudent ProfileRole = "student"
	RoleParent  ProfileRole = "parent"
)

// FeeStatus is the bookkeeping label of a fee record. It is set explicitly when a payment is
// recorded and is never derived from the amounts.
type FeeStatus string

const (
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusPending FeeStatus = "pending"
	FeeStatusLate    FeeStatus = "late"
)

// Valid reports whether s is one of the known statuses.
func (s FeeStatus) Valid() bool {
	switch s {
	case FeeStatusPaid, FeeStatusPending, FeeStatusLate:
		return true
	}
	return false
}
