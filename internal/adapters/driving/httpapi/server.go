// Package httpapi exposes a requirements session over a JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

// Version is the API version reported in the OpenAPI document.
const Version = "0.1.0"

// ErrMissingSessionService is returned when Config has no session.
var ErrMissingSessionService = errors.New("httpapi: session service is required")

// Config for the HTTP API handler.
type Config struct {
	Session  driving.SessionService
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"busy"`
	Message string         `json:"message" example:"operation in progress"`
	Details map[string]any `json:"details,omitempty"`
}

// apiError is the error envelope returned by every endpoint.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the session API.
func New(cfg Config) (http.Handler, error) {
	if cfg.Session == nil {
		return nil, ErrMissingSessionService
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(requestLogger)
	hcfg := huma.DefaultConfig("ReqBot API", Version)
	hcfg.OpenAPIPath = basePath + "/openapi"
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerSession(group, cfg.Session)
	registerOperations(group, cfg.Session)
	registerRequirements(group, cfg.Session)
	registerReport(group, cfg.Session)

	return router, nil
}

// Serve runs handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("http: %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// handleError maps session errors onto HTTP statuses.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	msg := domain.UserMessage(err)
	switch {
	case errors.Is(err, domain.ErrBusy):
		return newAPIError(http.StatusConflict, "busy", msg, nil)
	case errors.Is(err, domain.ErrNotFound):
		return newAPIError(http.StatusNotFound, "not_found", msg, nil)
	case errors.Is(err, domain.ErrInvalidInput):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	case errors.Is(err, domain.ErrNoRequirements), errors.Is(err, domain.ErrNotClassified):
		return newAPIError(http.StatusUnprocessableEntity, "precondition_failed", msg, nil)
	case errors.Is(err, domain.ErrRateLimited):
		return newAPIError(http.StatusTooManyRequests, "rate_limited", msg, nil)
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrSpeechUnavailable):
		return newAPIError(http.StatusServiceUnavailable, "unavailable", msg, nil)
	case errors.Is(err, domain.ErrResponseShape), errors.Is(err, domain.ErrCollaborator):
		return newAPIError(http.StatusBadGateway, "collaborator_error", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error",
			map[string]any{"error": err.Error()})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

var operationErrors = []int{
	http.StatusBadRequest,
	http.StatusConflict,
	http.StatusUnprocessableEntity,
	http.StatusTooManyRequests,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(_ context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerSession(api huma.API, s driving.SessionService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/session",
		Summary:     "Current requirements, classification, stories and stakeholders",
	}, func(_ context.Context, _ *struct{}) (*struct {
		Body SessionResponse `json:"body"`
	}, error) {
		return &struct {
			Body SessionResponse `json:"body"`
		}{Body: sessionResponse(s.Snapshot(), s.Busy())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-turns",
		Method:      http.MethodGet,
		Path:        "/conversation",
		Summary:     "Conversation turns",
	}, func(_ context.Context, _ *struct{}) (*struct {
		Body []TurnResponse `json:"body"`
	}, error) {
		return &struct {
			Body []TurnResponse `json:"body"`
		}{Body: turnResponses(s.Turns())}, nil
	})
}

func registerOperations(api huma.API, s driving.SessionService) {
	huma.Register(api, huma.Operation{
		OperationID: "send-message",
		Method:      http.MethodPost,
		Path:        "/messages",
		Summary:     "Send a chat message",
		Errors:      operationErrors,
	}, func(ctx context.Context, input *struct {
		Body MessageRequest `json:"body"`
	}) (*struct {
		Body ConversationResponse `json:"body"`
	}, error) {
		update, err := s.SendMessage(ctx, input.Body.Text)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ConversationResponse `json:"body"`
		}{Body: ConversationResponse{
			Requirements:     requirementResponses(update.UpdatedRequirements),
			FollowUpQuestion: update.FollowUpQuestion,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "start",
		Method:      http.MethodPost,
		Path:        "/start",
		Summary:     "Draft requirements from an application idea",
		Errors:      operationErrors,
	}, func(ctx context.Context, input *struct {
		Body StartRequest `json:"body"`
	}) (*struct {
		Body []RequirementResponse `json:"body"`
	}, error) {
		reqs, err := s.Start(ctx, input.Body.Idea)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []RequirementResponse `json:"body"`
		}{Body: requirementResponses(reqs)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "apply-feedback",
		Method:      http.MethodPost,
		Path:        "/feedback",
		Summary:     "Revise requirements from feedback",
		Errors:      operationErrors,
	}, func(ctx context.Context, input *struct {
		Body FeedbackRequest `json:"body"`
	}) (*struct {
		Body []RequirementResponse `json:"body"`
	}, error) {
		reqs, err := s.ApplyFeedback(ctx, input.Body.Feedback)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []RequirementResponse `json:"body"`
		}{Body: requirementResponses(reqs)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "classify",
		Method:      http.MethodPost,
		Path:        "/classify",
		Summary:     "Classify requirements",
		Errors:      operationErrors,
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []ClassifiedResponse `json:"body"`
	}, error) {
		classified, err := s.Classify(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []ClassifiedResponse `json:"body"`
		}{Body: classifiedResponses(classified)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "generate-stories",
		Method:      http.MethodPost,
		Path:        "/stories",
		Summary:     "Write user stories for functional requirements",
		Errors:      operationErrors,
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []StoryResponse `json:"body"`
	}, error) {
		stories, err := s.GenerateStories(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []StoryResponse `json:"body"`
		}{Body: storyResponses(stories)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "identify-stakeholders",
		Method:      http.MethodPost,
		Path:        "/stakeholders",
		Summary:     "Identify stakeholders",
		Errors:      operationErrors,
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []StakeholderResponse `json:"body"`
	}, error) {
		holders, err := s.IdentifyStakeholders(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []StakeholderResponse `json:"body"`
		}{Body: stakeholderResponses(holders)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "generate-report",
		Method:      http.MethodPost,
		Path:        "/report",
		Summary:     "Run the full report pass",
		Errors:      operationErrors,
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body ReportResponse `json:"body"`
	}, error) {
		report, err := s.GenerateReport(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ReportResponse `json:"body"`
		}{Body: ReportResponse{
			Title:        report.Title,
			Requirements: requirementResponses(report.Requirements),
			Stories:      storyResponses(report.Stories),
			Stakeholders: stakeholderResponses(report.Stakeholders),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "speak",
		Method:      http.MethodPost,
		Path:        "/speak",
		Summary:     "Narrate the requirements as a WAV data URI",
		Errors:      operationErrors,
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body AudioResponse `json:"body"`
	}, error) {
		uri, err := s.Speak(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AudioResponse `json:"body"`
		}{Body: AudioResponse{DataURI: uri}}, nil
	})
}

func registerRequirements(api huma.API, s driving.SessionService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-requirements",
		Method:      http.MethodGet,
		Path:        "/requirements",
		Summary:     "List requirements, optionally filtered by description",
	}, func(_ context.Context, input *struct {
		Query string `query:"q"`
	}) (*struct {
		Body []RequirementResponse `json:"body"`
	}, error) {
		return &struct {
			Body []RequirementResponse `json:"body"`
		}{Body: requirementResponses(s.FilterRequirements(input.Query))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-requirement",
		Method:      http.MethodPut,
		Path:        "/requirements/{id}",
		Summary:     "Edit a requirement",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(_ context.Context, input *struct {
		ID   string                   `path:"id"`
		Body UpdateRequirementRequest `json:"body"`
	}) (*struct {
		Body RequirementResponse `json:"body"`
	}, error) {
		current, ok := findRequirement(s.Snapshot().Requirements, input.ID)
		if !ok {
			return nil, handleError(domain.ErrNotFound)
		}
		current.Description = input.Body.Description
		if input.Body.Type != nil {
			current.Type = domain.RequirementType(*input.Body.Type)
		}
		if input.Body.Priority != nil {
			current.Priority = domain.Priority(*input.Body.Priority)
		}
		if err := s.EditRequirement(current); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body RequirementResponse `json:"body"`
		}{Body: requirementResponses([]domain.Requirement{current})[0]}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-requirement",
		Method:        http.MethodDelete,
		Path:          "/requirements/{id}",
		Summary:       "Delete a requirement",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusConflict},
	}, func(_ context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := s.DeleteRequirement(input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerReport(api huma.API, s driving.SessionService) {
	huma.Register(api, huma.Operation{
		OperationID: "export-report",
		Method:      http.MethodGet,
		Path:        "/report",
		Summary:     "Export the last report",
		Errors:      []int{http.StatusBadRequest, http.StatusUnprocessableEntity},
	}, func(_ context.Context, input *struct {
		Format string `query:"format" enum:"markdown,text" default:"markdown"`
	}) (*struct {
		ContentType string `header:"Content-Type"`
		Body        []byte
	}, error) {
		format := domain.ReportFormat(input.Format)
		var buf bytes.Buffer
		if err := s.ExportReport(&buf, format); err != nil {
			return nil, handleError(err)
		}
		contentType := "text/plain; charset=utf-8"
		if format == domain.ReportFormatMarkdown {
			contentType = "text/markdown; charset=utf-8"
		}
		return &struct {
			ContentType string `header:"Content-Type"`
			Body        []byte
		}{ContentType: contentType, Body: buf.Bytes()}, nil
	})
}

func findRequirement(reqs []domain.Requirement, id string) (domain.Requirement, bool) {
	for _, r := range reqs {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Requirement{}, false
}
