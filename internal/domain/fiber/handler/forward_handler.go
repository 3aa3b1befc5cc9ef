package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/fadilmartias/career-gateway/internal/config"
	"github.com/fadilmartias/career-gateway/internal/dto"
	"github.com/fadilmartias/career-gateway/internal/model"
	"github.com/fadilmartias/career-gateway/internal/usecase"
	"github.com/fadilmartias/career-gateway/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	resumeField        = "resume"
	defaultCultureTopN = 5
)

type ForwardHandler struct {
	uc            *usecase.ForwardUsecase
	backend       *config.BackendConfig
	maxUploadSize int64
	logger        *zap.Logger
}

func NewForwardHandler(uc *usecase.ForwardUsecase, backend *config.BackendConfig, maxUploadSize int64, log *zap.Logger) *ForwardHandler {
	return &ForwardHandler{
		uc:            uc,
		backend:       backend,
		maxUploadSize: maxUploadSize,
		logger:        log,
	}
}

func (h *ForwardHandler) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api")
	api.Post("/analyze-skills", h.AnalyzeSkills)
	api.Post("/skill-gap", h.SkillGap)
	api.Post("/cultural-match", h.CulturalMatch)
	api.Post("/career-recommendations", h.CareerRecommendations)
	api.Post("/fresher-recommendations", h.FresherRecommendations)
	api.Get("/backend-health", h.BackendHealth)
	api.Get("/client-config", h.ClientConfig)
}

func (h *ForwardHandler) AnalyzeSkills(c *fiber.Ctx) error {
	file, src, err := h.resumeFile(c)
	if err != nil {
		return util.ForwardErrorResponse(c, h.logger, err)
	}
	defer src.Close()

	resp, err := h.uc.AnalyzeResume(c.UserContext(), file)
	return h.respond(c, resp, err)
}

func (h *ForwardHandler) SkillGap(c *fiber.Ctx) error {
	file, src, err := h.resumeFile(c)
	if err != nil {
		return util.ForwardErrorResponse(c, h.logger, err)
	}
	defer src.Close()

	advice, _ := strconv.ParseBool(c.FormValue("gemini_advice"))
	opts := model.SkillGapOptions{
		TargetRole:   strings.TrimSpace(c.FormValue("target_role")),
		GeminiAdvice: advice,
	}

	resp, err := h.uc.AnalyzeSkillGap(c.UserContext(), file, opts)
	return h.respond(c, resp, err)
}

type culturalMatchBody struct {
	Preferences string          `json:"preferences"`
	TopN        json.RawMessage `json:"top_n"`
}

func (h *ForwardHandler) CulturalMatch(c *fiber.Ctx) error {
	var body culturalMatchBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return util.ForwardErrorResponse(c, h.logger, usecase.BadRequest(usecase.MsgInvalidPayload, err))
	}
	if strings.TrimSpace(body.Preferences) == "" {
		return util.ForwardErrorResponse(c, h.logger, usecase.BadRequest(usecase.MsgPreferencesMissing, nil))
	}

	req := dto.CulturalMatchRequest{
		Preferences: body.Preferences,
		TopN:        cultureTopN(body.TopN),
	}
	resp, err := h.uc.CulturalMatch(c.UserContext(), req)
	return h.respond(c, resp, err)
}

func (h *ForwardHandler) CareerRecommendations(c *fiber.Ctx) error {
	body := c.Body()
	if !isJSONObject(body) {
		return util.ForwardErrorResponse(c, h.logger, usecase.BadRequest(usecase.MsgInvalidPayload, nil))
	}

	resp, err := h.uc.CareerRecommendations(c.UserContext(), body)
	return h.respond(c, resp, err)
}

func (h *ForwardHandler) FresherRecommendations(c *fiber.Ctx) error {
	body := c.Body()
	if !isJSONObject(body) {
		return util.ForwardErrorResponse(c, h.logger, usecase.BadRequest(usecase.MsgInvalidPayload, nil))
	}
	if skills := gjson.GetBytes(body, "skills"); !skills.IsArray() || len(skills.Array()) == 0 {
		return util.ForwardErrorResponse(c, h.logger, usecase.BadRequest(usecase.MsgSkillsMissing, nil))
	}

	resp, err := h.uc.FresherRecommendations(c.UserContext(), body)
	return h.respond(c, resp, err)
}

func (h *ForwardHandler) BackendHealth(c *fiber.Ctx) error {
	resp, err := h.uc.BackendHealth(c.UserContext())
	return h.respond(c, resp, err)
}

func (h *ForwardHandler) ClientConfig(c *fiber.Ctx) error {
	return c.JSON(dto.ClientConfigDTO{APIURL: h.backend.PublicURL})
}

// resumeFile pulls the resume out of the inbound form. The caller closes the
// returned file once the backend call is done.
func (h *ForwardHandler) resumeFile(c *fiber.Ctx) (*model.UploadedFile, multipart.File, error) {
	fh, err := c.FormFile(resumeField)
	if err != nil {
		return nil, nil, usecase.BadRequest(usecase.MsgInvalidResume, err)
	}
	if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
		return nil, nil, usecase.BadRequest(
			fmt.Sprintf("resume file size is too large (max %dMB)", h.maxUploadSize/(1024*1024)), nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, usecase.Internal(fmt.Errorf("opening uploaded resume: %w", err))
	}

	return &model.UploadedFile{
		FieldName:   resumeField,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Reader:      f,
	}, f, nil
}

func (h *ForwardHandler) respond(c *fiber.Ctx, resp *model.BackendResponse, err error) error {
	if err != nil {
		return util.ForwardErrorResponse(c, h.logger, err)
	}
	return util.PassthroughResponse(c, resp.StatusCode, resp.Body)
}

func isJSONObject(body []byte) bool {
	return gjson.ValidBytes(body) && gjson.ParseBytes(body).IsObject()
}

// cultureTopN accepts a number or a numeric string. Anything else, including
// zero or a negative count, falls back to the scoring default.
func cultureTopN(raw json.RawMessage) int {
	var n int
	switch v := gjson.ParseBytes(raw); v.Type {
	case gjson.Number:
		n = int(v.Int())
	case gjson.String:
		n, _ = strconv.Atoi(strings.TrimSpace(v.Str))
	}
	if n <= 0 {
		return defaultCultureTopN
	}
	return n
}
