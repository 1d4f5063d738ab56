package handlers

import (
	"context"
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sendgrid/sendgrid-go"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/config"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
	client   databases.ClientHelper
}

// NewApp builds an App over an already connected client, used by tests and by
// commands that share one connection
func NewApp(conf config.Config, client databases.ClientHelper, db databases.DatabaseHelper) *App {
	a := &App{Config: conf, client: client, dbHelper: db}
	a.initializeRoutes()
	return a
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	r.Use(api.MetricsMiddleware)

	refs := databases.NewReferenceDatabase(a.dbHelper)
	fac := Facility{DB: databases.NewFacilityDatabase(a.dbHelper)}
	p := Patient{
		DB:        databases.NewPatientDatabase(a.dbHelper),
		RefDB:     refs,
		CounterDB: databases.NewCounterDatabase(a.dbHelper),
		IDPrefix:  a.Config.PatientIDPrefix,
	}
	d := Doctor{DB: databases.NewDoctorDatabase(a.dbHelper), RefDB: refs}
	appt := Appointment{DB: databases.NewAppointmentDatabase(a.dbHelper), RefDB: refs}
	cons := Consultation{DB: databases.NewConsultationDatabase(a.dbHelper), RefDB: refs}
	pres := Prescription{DB: databases.NewPrescriptionDatabase(a.dbHelper), RefDB: refs}
	lab := Laboratory{DB: databases.NewLabOrderDatabase(a.dbHelper), RefDB: refs}
	ph := Pharmacy{DB: databases.NewDispensingDatabase(a.dbHelper), RefDB: refs}
	pay := Payment{DB: databases.NewPaymentDatabase(a.dbHelper), RefDB: refs}
	n := Notification{DB: databases.NewNotificationDatabase(a.dbHelper), RefDB: refs}
	ha := HealthAuthority{DB: databases.NewHealthReportDatabase(a.dbHelper), RefDB: refs}
	contact := Contact{To: a.Config.ContactForwardTo, From: a.Config.ContactFromEmail}
	if a.Config.SendGridAPIKey != "" {
		contact.Mailer = sendgrid.NewSendClient(a.Config.SendGridAPIKey)
	}
	upload, err := NewUpload(a.Config.CloudinaryURL, a.Config.CloudinaryUploadFolder)
	if err != nil {
		zap.S().With(zap.Error(err)).Warn("invalid CLOUDINARY_URL, uploads are disabled")
	}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.HandleFunc("/ready", a.readyHandler).Methods("GET")
	r.Handle("/metrics", api.MetricsHandler()).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", healthCheckHandler).Methods("GET")

	crudRoutes(apiRouter, "/facilities", "facility_id", fac.CreateFacilityHandler, fac.FacilitiesHandler, fac.FacilityByIDHandler, fac.UpdateFacilityHandler, fac.DeleteFacilityHandler)
	crudRoutes(apiRouter, "/patients", "patient_id", p.CreatePatientHandler, p.PatientsHandler, p.PatientByIDHandler, p.UpdatePatientHandler, p.DeletePatientHandler)
	crudRoutes(apiRouter, "/doctors", "doctor_id", d.CreateDoctorHandler, d.DoctorsHandler, d.DoctorByIDHandler, d.UpdateDoctorHandler, d.DeleteDoctorHandler)
	crudRoutes(apiRouter, "/appointments", "appointment_id", appt.CreateAppointmentHandler, appt.AppointmentsHandler, appt.AppointmentByIDHandler, appt.UpdateAppointmentHandler, appt.DeleteAppointmentHandler)
	crudRoutes(apiRouter, "/consultations", "consultation_id", cons.CreateConsultationHandler, cons.ConsultationsHandler, cons.ConsultationByIDHandler, cons.UpdateConsultationHandler, cons.DeleteConsultationHandler)
	crudRoutes(apiRouter, "/prescriptions", "prescription_id", pres.CreatePrescriptionHandler, pres.PrescriptionsHandler, pres.PrescriptionByIDHandler, pres.UpdatePrescriptionHandler, pres.DeletePrescriptionHandler)
	crudRoutes(apiRouter, "/laboratories", "laboratory_id", lab.CreateLabOrderHandler, lab.LabOrdersHandler, lab.LabOrderByIDHandler, lab.UpdateLabOrderHandler, lab.DeleteLabOrderHandler)
	crudRoutes(apiRouter, "/pharmacies", "pharmacy_id", ph.CreateDispensingHandler, ph.DispensingsHandler, ph.DispensingByIDHandler, ph.UpdateDispensingHandler, ph.DeleteDispensingHandler)
	crudRoutes(apiRouter, "/payments", "payment_id", pay.CreatePaymentHandler, pay.PaymentsHandler, pay.PaymentByIDHandler, pay.UpdatePaymentHandler, pay.DeletePaymentHandler)
	crudRoutes(apiRouter, "/notifications", "notification_id", n.CreateNotificationHandler, n.NotificationsHandler, n.NotificationByIDHandler, n.UpdateNotificationHandler, n.DeleteNotificationHandler)
	crudRoutes(apiRouter, "/health_authorities", "report_id", ha.CreateHealthReportHandler, ha.HealthReportsHandler, ha.HealthReportByIDHandler, ha.UpdateHealthReportHandler, ha.DeleteHealthReportHandler)

	apiRouter.HandleFunc("/contacts", contact.ContactHandler).Methods("POST")
	apiRouter.HandleFunc("/uploads/signature", upload.UploadSignatureHandler).Methods("POST")

	return r
}

// crudRoutes mounts the five entity routes under path
func crudRoutes(r *mux.Router, path, idVar string, create, list, get, update, remove http.HandlerFunc) {
	byID := path + "/{" + idVar + "}"
	r.HandleFunc(path, create).Methods("POST")
	r.HandleFunc(path, list).Methods("GET")
	r.HandleFunc(byID, get).Methods("GET")
	r.HandleFunc(byID, update).Methods("PATCH")
	r.HandleFunc(byID, remove).Methods("DELETE")
}

// Handler wraps the router with the cross-cutting middleware, outermost first
func (a *App) Handler() http.Handler {
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(a.Config.CORSOrigins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", api.RequestIDHeader}),
		gorillahandlers.ExposedHeaders([]string{api.RequestIDHeader}),
	)
	return api.Chain(a.Router,
		api.RequestID,
		cors,
		api.AccessLog,
		api.Recovery,
		api.ReadOnly(a.Config.ReadOnly),
		api.TimeoutMiddleware(a.Config.RequestTimeout),
	)
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		zap.S().With(zap.Error(err)).Error("failed to create new client")
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.DBTimeout)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		zap.S().With(zap.Error(err)).Error("failed to connect to database")
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("hospital-api has connected to the database")

	a.initializeRoutes()
	return nil
}

// Database returns the connected database, nil before Initialize
func (a *App) Database() databases.DatabaseHelper {
	return a.dbHelper
}

// Close disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthCheckResponse{Status: "ok"})
}

// readyHandler pings the store
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if a.client == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.ReadyResponse{Status: "not-ready", Error: "database is not connected"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.Config.DBTimeout)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		zap.S().With(zap.Error(err)).Warn("readiness ping failed")
		writeJSON(w, http.StatusServiceUnavailable, models.ReadyResponse{Status: "not-ready", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, models.ReadyResponse{Status: "ready"})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	config.ErrorStatus("Not Found", http.StatusNotFound, w, nil)
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	config.ErrorStatus("Method Not Allowed", http.StatusMethodNotAllowed, w, nil)
}
