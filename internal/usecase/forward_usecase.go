package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/career-gateway/internal/dto"
	"github.com/fadilmartias/career-gateway/internal/model"
	"github.com/fadilmartias/career-gateway/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
)

const (
	MsgInvalidResume      = "No valid resume file provided"
	MsgInvalidPayload     = "Invalid request payload"
	MsgPreferencesMissing = "Preferences are required"
	MsgSkillsMissing      = "Skills are required"
	MsgInternal           = "Internal server error"
	MsgBackendFallback    = "Python server error"
	MsgCultureProcess     = "Failed to process cultural match request"
	MsgCultureParse       = "Failed to parse cultural match results"
)

// ForwardError is the only error shape handlers render. Message is safe to
// show to the browser; Err is for the log only.
type ForwardError struct {
	Status  int
	Message string
	Err     error
}

func (e *ForwardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *ForwardError) Unwrap() error {
	return e.Err
}

func BadRequest(message string, err error) *ForwardError {
	return &ForwardError{Status: fiber.StatusBadRequest, Message: message, Err: err}
}

func Internal(err error) *ForwardError {
	return &ForwardError{Status: fiber.StatusInternalServerError, Message: MsgInternal, Err: err}
}

type ForwardUsecase struct {
	backend service.BackendServiceInterface
	culture service.CultureMatcher
}

func NewForwardUsecase(backend service.BackendServiceInterface, culture service.CultureMatcher) *ForwardUsecase {
	return &ForwardUsecase{backend: backend, culture: culture}
}

func (uc *ForwardUsecase) AnalyzeResume(ctx context.Context, file *model.UploadedFile) (*model.BackendResponse, error) {
	return relay(uc.backend.AnalyzeResume(ctx, file))
}

func (uc *ForwardUsecase) AnalyzeSkillGap(ctx context.Context, file *model.UploadedFile, opts model.SkillGapOptions) (*model.BackendResponse, error) {
	return relay(uc.backend.AnalyzeSkillGap(ctx, file, opts))
}

func (uc *ForwardUsecase) CareerRecommendations(ctx context.Context, body []byte) (*model.BackendResponse, error) {
	return relay(uc.backend.CareerRecommendations(ctx, body))
}

func (uc *ForwardUsecase) FresherRecommendations(ctx context.Context, body []byte) (*model.BackendResponse, error) {
	return relay(uc.backend.FresherRecommendations(ctx, body))
}

func (uc *ForwardUsecase) BackendHealth(ctx context.Context) (*model.BackendResponse, error) {
	return relay(uc.backend.Health(ctx))
}

// BackendReady reports whether the backend answers its health check.
func (uc *ForwardUsecase) BackendReady(ctx context.Context) bool {
	resp, err := uc.backend.Health(ctx)
	return err == nil && resp.IsSuccess()
}

func (uc *ForwardUsecase) CulturalMatch(ctx context.Context, req dto.CulturalMatchRequest) (*model.BackendResponse, error) {
	resp, err := uc.culture.Match(ctx, req)
	switch {
	case errors.Is(err, service.ErrProcessFailed):
		return nil, &ForwardError{Status: fiber.StatusInternalServerError, Message: MsgCultureProcess, Err: err}
	case errors.Is(err, service.ErrMalformedOutput):
		return nil, &ForwardError{Status: fiber.StatusInternalServerError, Message: MsgCultureParse, Err: err}
	}
	return relay(resp, err)
}

// relay maps one backend outcome to either a passthrough body or a
// ForwardError. The body must be JSON even when the backend reports failure.
func relay(resp *model.BackendResponse, err error) (*model.BackendResponse, error) {
	if err != nil {
		return nil, Internal(err)
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, Internal(fmt.Errorf("backend returned non-JSON body with status %d", resp.StatusCode))
	}
	if !resp.IsSuccess() {
		return nil, &ForwardError{Status: resp.StatusCode, Message: backendMessage(resp.Body)}
	}
	return &model.BackendResponse{StatusCode: fiber.StatusOK, Body: resp.Body}, nil
}

// backendMessage prefers the backend's own "error" field, then FastAPI's
// "detail", then a generic fallback.
func backendMessage(body []byte) string {
	for _, key := range []string{"error", "detail"} {
		if r := gjson.GetBytes(body, key); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return MsgBackendFallback
}
