package analysis

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/2beens/physiometrics/internal/middleware"
	"github.com/2beens/physiometrics/internal/physio"
	"github.com/2beens/physiometrics/internal/telemetry/metrics"
	"github.com/2beens/physiometrics/internal/telemetry/tracing"
	"github.com/2beens/physiometrics/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const maxRequestBodyBytes = 64 << 10

type Handler struct {
	service     *Service
	methodology physio.Methodology
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:     service,
		methodology: physio.DefaultMethodology(),
	}
}

// SetupRoutes registers the analysis routes. A nil rateLimiter or a
// non-positive limit leaves /evaluate unlimited.
func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	evaluatePerMin int,
	metricsManager *metrics.Manager,
) {
	mainRouter.HandleFunc("/journal/{name}", handler.HandleHistory).Methods("GET").Name("journal")
	// names containing '/' can only be passed as ?name=
	mainRouter.HandleFunc("/journal", handler.HandleHistory).Methods("GET").Name("journal-query")
	mainRouter.HandleFunc("/methodology", handler.HandleMethodology).Methods("GET").Name("methodology")

	evaluateRouter := mainRouter.PathPrefix("/evaluate").Subrouter()
	evaluateRouter.HandleFunc("", handler.HandleEvaluate).Methods("POST").Name("evaluate")
	if rateLimiter != nil && evaluatePerMin > 0 {
		evaluateRouter.Use(middleware.RateLimit(rateLimiter, "evaluate", evaluatePerMin, metricsManager))
	}
}

func (handler *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.evaluate")
	defer span.End()

	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	save, err := parseSave(r)
	if err != nil {
		http.Error(w, "invalid save param", http.StatusBadRequest)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		log.Tracef("evaluate, unmarshal json body: %s", err)
		http.Error(w, "invalid evaluate request", http.StatusBadRequest)
		return
	}

	in, err := req.Input()
	if err != nil {
		log.Tracef("evaluate, invalid input: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := EvaluateResponse{
		Report: handler.service.Evaluate(ctx, in),
	}

	if save {
		record, err := handler.service.Save(ctx, resp.Report)
		switch {
		case err == nil:
			resp.Saved = true
			resp.Record = &record
		case errors.Is(err, ErrNameRequired), errors.Is(err, ErrJournalDisabled):
			resp.Error = err.Error()
		default:
			log.Errorf("evaluate, save result: %s", err)
			span.RecordError(err)
			resp.Error = "failed to save result to the journal"
		}
	}

	span.SetAttributes(attribute.Bool("saved", resp.Saved))
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponse(w, resp, http.StatusOK)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history")
	defer span.End()

	name, ok := mux.Vars(r)["name"]
	if !ok {
		name = r.URL.Query().Get("name")
	}
	if name == "" {
		http.Error(w, "name missing", http.StatusBadRequest)
		return
	}

	records, err := handler.service.History(ctx, name)
	if err != nil {
		if errors.Is(err, ErrJournalDisabled) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("history of [%s]: %s", name, err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "failed to read journal", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	pkg.WriteJSONResponse(w, NewHistoryResponse(name, records), http.StatusOK)
}

func (handler *Handler) HandleMethodology(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.methodology")
	defer span.End()

	pkg.WriteJSONResponse(w, handler.methodology, http.StatusOK)
}

func parseSave(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("save")
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
