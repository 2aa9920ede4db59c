package models

// StudentIdentifier is the external identifier (e.g. STU-1234) owned by exactly one student.
type StudentIdentifier struct {
	ID         int64  `json:"id" db:"id"`
	Identifier string `json:"identifier" db:"identifier"`
}

// Student is a learner from the 'students' table
type Student struct {
	ID           int64  `json:"id" db:"id"`
	DepartmentID int64  `json:"departmentId" db:"department_id"`
	IdentifierID int64  `json:"-" db:"identifier_id"`
	Identifier   string `json:"identifier"` // joined from student_identifiers
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Age          int    `json:"age" db:"age"`
	Address      string `json:"address" db:"address"`

	// Relations (populated when needed)
	Department *Department `json:"department,omitempty"`
}

// DepartmentName returns the joined department name, or an empty string.
func (s *Student) DepartmentName() string {
	if s.Department == nil {
		return ""
	}
	return s.Department.Name
}
