package databases

// Collection names
const (
	FacilityCollection     = "facilities"
	PatientCollection      = "patients"
	DoctorCollection       = "doctors"
	AppointmentCollection  = "appointments"
	ConsultationCollection = "consultations"
	PrescriptionCollection = "prescriptions"
	LabOrderCollection     = "lab_results"
	DispensingCollection   = "pharmacies"
	PaymentCollection      = "payments"
	NotificationCollection = "notifications"
	HealthReportCollection = "health_authorities"
	CounterCollection      = "counters"
	MigrationCollection    = "schema_migrations"
)

// EntityCollections lists every collection that holds API entities
var EntityCollections = []string{
	FacilityCollection,
	PatientCollection,
	DoctorCollection,
	AppointmentCollection,
	ConsultationCollection,
	PrescriptionCollection,
	LabOrderCollection,
	DispensingCollection,
	PaymentCollection,
	NotificationCollection,
	HealthReportCollection,
}
