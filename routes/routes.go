package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
	_ "kdsgroup.co.in/hms/docs"
	"kdsgroup.co.in/hms/handlers"
	"kdsgroup.co.in/hms/middleware"
	"kdsgroup.co.in/hms/utils"
)

type Options struct {
	UploadDir   string
	Version     string
	CORSOrigins []string
	Log         *zap.Logger
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(h *handlers.Handlers, auth *middleware.Auth, opts Options) http.Handler {
	var handler http.Handler = newRouter(h, auth, opts)
	handler = middleware.CORS(opts.CORSOrigins)(handler)
	handler = middleware.Recovery(opts.Log)(handler)
	handler = middleware.Logging(opts.Log)(handler)
	return handler
}

func newRouter(h *handlers.Handlers, auth *middleware.Auth, opts Options) *mux.Router {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/health", health(opts.Version)).Methods("GET")
	r.HandleFunc("/swagger/doc.json", swaggerDoc).Methods("GET")
	if opts.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))),
		)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/login", h.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	secured := api.NewRoute().Subrouter()
	secured.Use(auth.JWTMiddleware)

	secured.HandleFunc("/logout", h.Logout).Methods("POST")
	secured.HandleFunc("/profile", h.Profile).Methods("GET")
	secured.HandleFunc("/jurisdiction", h.Jurisdiction).Methods("GET")
	secured.HandleFunc("/filters", h.Filters).Methods("GET")
	secured.HandleFunc("/search", h.Search).Methods("GET")
	secured.HandleFunc("/submissions", h.ListSubmissions).Methods("GET")

	registerDatasetRoutes(secured, h)
	registerSubmissionRoutes(secured, h)
	return r
}

func registerDatasetRoutes(api *mux.Router, h *handlers.Handlers) {
	read := func(perm string, f http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(perm)(f)
	}
	exp := func(f http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(utils.PermReportExport)(f)
	}

	api.Handle("/requisitions", read(utils.PermRequisitionRead, h.ListRequisitions())).Methods("GET")
	api.Handle("/requisitions/export", exp(h.ExportRequisitions())).Methods("GET")
	api.Handle("/closures", read(utils.PermRequisitionRead, h.ListClosures())).Methods("GET")
	api.Handle("/closures/export", exp(h.ExportClosures())).Methods("GET")
	api.Handle("/complaints", read(utils.PermComplaintRead, h.ListComplaints())).Methods("GET")
	api.Handle("/complaints/export", exp(h.ExportComplaints())).Methods("GET")
	api.Handle("/handpumps", read(utils.PermHandpumpRead, h.ListHandpumps())).Methods("GET")
	api.Handle("/handpumps/export", exp(h.ExportHandpumps())).Methods("GET")
	api.Handle("/handpumps/geojson", read(utils.PermHandpumpRead, h.HandpumpsGeoJSON)).Methods("GET")
	api.Handle("/estimations", read(utils.PermEstimationRead, h.ListEstimations())).Methods("GET")
	api.Handle("/estimations/export", exp(h.ExportEstimations())).Methods("GET")
	api.Handle("/estimations/catalogue", read(utils.PermEstimationRead, h.Catalogue)).Methods("GET")
	api.Handle("/mb/reports", read(utils.PermMBRead, h.ListMBReports())).Methods("GET")
	api.Handle("/mb/reports/export", exp(h.ExportMBReports())).Methods("GET")
}

func registerSubmissionRoutes(api *mux.Router, h *handlers.Handlers) {
	write := func(perm string, f http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(perm)(f)
	}

	api.Handle("/requisitions", write(utils.PermRequisitionCreate, h.SubmitRequisition)).Methods("POST")
	api.Handle("/estimations/preview", write(utils.PermEstimationRead, h.PreviewEstimation)).Methods("POST")
	api.Handle("/estimations", write(utils.PermEstimationCreate, h.SubmitEstimation)).Methods("POST")
	api.Handle("/mb/remarks", write(utils.PermMBUpdate, h.UpdateMBRemarks)).Methods("POST")
	api.Handle("/visits", write(utils.PermVisitCreate, h.SubmitVisit)).Methods("POST")
}

func health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": version,
		})
	}
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, "api docs unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
