package triage

import "github.com/civicdesk/grievance-service/internal/domain"

var departmentContacts = map[string]domain.DepartmentContact{
	"Municipal Sanitation Department": {
		Phone:       "+91-1234-567890",
		Email:       "sanitation@municipality.gov.in",
		OfficeHours: "9:00 AM - 6:00 PM",
	},
	"Electricity & Water Department": {
		Phone:       "+91-1234-567891",
		Email:       "utilities@municipality.gov.in",
		OfficeHours: "24/7 Emergency Hotline",
	},
	"Health & Medical Services": {
		Phone:       "+91-1234-567892",
		Email:       "health@municipality.gov.in",
		OfficeHours: "24/7 Emergency Services",
	},
	"Police & Security Department": {
		Phone:       "100 (Emergency)",
		Email:       "security@police.gov.in",
		OfficeHours: "24/7 Emergency Hotline",
	},
	"Public Works Department": {
		Phone:       "+91-1234-567893",
		Email:       "pwd@municipality.gov.in",
		OfficeHours: "9:00 AM - 6:00 PM",
	},
	"District Administration Office": {
		Phone:       "+91-1234-567894",
		Email:       "admin@district.gov.in",
		OfficeHours: "9:00 AM - 5:00 PM",
	},
}

var generalContact = domain.DepartmentContact{
	Phone:       "+91-1234-567800",
	Email:       "grievance@municipality.gov.in",
	OfficeHours: "9:00 AM - 5:00 PM",
}

// ContactFor returns the public contact of a department, falling back to the
// general grievance desk.
func ContactFor(department string) domain.DepartmentContact {
	if contact, ok := departmentContacts[department]; ok {
		return contact
	}
	return generalContact
}
