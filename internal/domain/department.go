package domain

// DepartmentContact is how a citizen reaches the responsible department.
type DepartmentContact struct {
	Phone       string
	Email       string
	OfficeHours string
}
