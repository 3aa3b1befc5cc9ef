package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fadilmartias/career-gateway/internal/config"
	"github.com/fadilmartias/career-gateway/internal/model"
	"github.com/go-resty/resty/v2"
)

const (
	skillGapPath               = "/api/analyze-skills"
	careerRecommendationsPath  = "/api/career-recommendations"
	fresherRecommendationsPath = "/api/fresher-recommendations"
	culturalMatchPath          = "/api/cultural-match"
	healthPath                 = "/health"

	defaultFileContentType = "application/octet-stream"
)

type BackendServiceInterface interface {
	AnalyzeResume(ctx context.Context, file *model.UploadedFile) (*model.BackendResponse, error)
	AnalyzeSkillGap(ctx context.Context, file *model.UploadedFile, opts model.SkillGapOptions) (*model.BackendResponse, error)
	CareerRecommendations(ctx context.Context, body []byte) (*model.BackendResponse, error)
	FresherRecommendations(ctx context.Context, body []byte) (*model.BackendResponse, error)
	CulturalMatch(ctx context.Context, body any) (*model.BackendResponse, error)
	Health(ctx context.Context) (*model.BackendResponse, error)
}

// BackendService talks to the Python inference backend. It never retries:
// one inbound request maps to exactly one outbound call.
type BackendService struct {
	client *resty.Client
	cfg    *config.BackendConfig
}

func NewBackendService(cfg *config.BackendConfig) *BackendService {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &BackendService{
		client: client,
		cfg:    cfg,
	}
}

// AnalyzeResume sends only the resume file to the resume-analysis endpoint.
func (s *BackendService) AnalyzeResume(ctx context.Context, file *model.UploadedFile) (*model.BackendResponse, error) {
	req := s.client.R().SetContext(ctx)
	attachFile(req, file)

	return backendResponse(req.Post(s.cfg.ResumeAnalysisURL))
}

// AnalyzeSkillGap sends the resume together with the optional skill-gap fields.
// It always targets the unified backend; the legacy resume-analysis override
// does not accept target_role or gemini_advice.
func (s *BackendService) AnalyzeSkillGap(ctx context.Context, file *model.UploadedFile, opts model.SkillGapOptions) (*model.BackendResponse, error) {
	req := s.client.R().SetContext(ctx)
	attachFile(req, file)

	fields := map[string]string{}
	if opts.TargetRole != "" {
		fields["target_role"] = opts.TargetRole
	}
	if opts.GeminiAdvice {
		fields["gemini_advice"] = strconv.FormatBool(true)
	}
	if len(fields) > 0 {
		req.SetMultipartFormData(fields)
	}

	return backendResponse(req.Post(s.cfg.Endpoint(skillGapPath)))
}

func (s *BackendService) CareerRecommendations(ctx context.Context, body []byte) (*model.BackendResponse, error) {
	return s.postJSON(ctx, careerRecommendationsPath, body)
}

func (s *BackendService) FresherRecommendations(ctx context.Context, body []byte) (*model.BackendResponse, error) {
	return s.postJSON(ctx, fresherRecommendationsPath, body)
}

func (s *BackendService) CulturalMatch(ctx context.Context, body any) (*model.BackendResponse, error) {
	return s.postJSON(ctx, culturalMatchPath, body)
}

func (s *BackendService) Health(ctx context.Context) (*model.BackendResponse, error) {
	return backendResponse(s.client.R().SetContext(ctx).Get(s.cfg.Endpoint(healthPath)))
}

func (s *BackendService) postJSON(ctx context.Context, path string, body any) (*model.BackendResponse, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(s.cfg.Endpoint(path))
	return backendResponse(resp, err)
}

func attachFile(req *resty.Request, file *model.UploadedFile) {
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultFileContentType
	}
	req.SetMultipartField(file.FieldName, file.FileName, contentType, file.Reader)
}

func backendResponse(resp *resty.Response, err error) (*model.BackendResponse, error) {
	if err != nil {
		return nil, fmt.Errorf("calling backend: %w", err)
	}
	return &model.BackendResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
