package delivery_graphql

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"

	"feed-service/internal/custom_errors"
	ports "feed-service/internal/domain/ports/output"
)

type Handler struct {
	schema *graphql.Schema
	log    ports.Logger
}

// NewHandler parses the schema against resolver. It fails only when the
// schema and resolver disagree.
func NewHandler(resolver *Resolver, log ports.Logger) (*Handler, error) {
	schema, err := graphql.ParseSchema(schemaSDL, resolver)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, log: log}, nil
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []any           `json:"errors,omitempty"`
}

// faultEntry is the error shape for failures raised by the workflow.
type faultEntry struct {
	Message string                       `json:"message"`
	Status  int                          `json:"status"`
	Data    []custom_errors.FieldMessage `json:"data,omitempty"`
}

// ServeHTTP always answers 200; fault status codes travel inside the error
// entries instead.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				http.Error(w, "invalid variables", http.StatusBadRequest)
				return
			}
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	result := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	out := response{Data: result.Data}
	for _, qe := range result.Errors {
		out.Errors = append(out.Errors, h.formatError(qe))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.log.Error("Failed to write GraphQL response", slog.String("error", err.Error()))
	}
}

// formatError maps resolver failures onto {message, status, data}. Parse and
// validation errors carry no fault and pass through unchanged.
func (h *Handler) formatError(qe *gqlerrors.QueryError) any {
	if qe.ResolverError == nil {
		return qe
	}

	fault := custom_errors.Normalize(qe.ResolverError)
	if fault.Status >= http.StatusInternalServerError {
		h.log.Error("GraphQL resolver failed", slog.Any("path", qe.Path), slog.String("error", qe.ResolverError.Error()))
	}
	return faultEntry{Message: fault.Message, Status: fault.Status, Data: fault.Data}
}
