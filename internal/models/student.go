package models

// Student represents a registered mess member.
type Student struct {
	// ID is the student's unique identifier, chosen at registration.
	ID int64

	// Name is the display name of the student.
	Name string

	// Branch is the student's branch or affiliation (e.g., "CSE", "Hostel B").
	Branch string

	// Phone is the student's phone number. It doubles as the login credential.
	Phone string

	// CreatedAt is the Unix timestamp when the student registered.
	CreatedAt int64
}

// Attendance records how many days a student ate at the mess in a given month.
// There is at most one Attendance per (StudentID, Month); recording it again
// replaces DaysPresent.
type Attendance struct {
	StudentID   int64
	Month       string
	DaysPresent int
}
