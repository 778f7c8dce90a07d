package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/query"
)

var validate = validator.New()

type recentRequest struct {
	Limit int `json:"limit" validate:"gte=1"`
}

type scoredRequest struct {
	MinScore int `json:"min_score" validate:"gte=1,lte=3"`
}

type dateRequest struct {
	Date     string `json:"date" validate:"required"`
	MinScore int    `json:"min_score" validate:"gte=1,lte=3"`
}

type rangeRequest struct {
	From     string `json:"from" validate:"required"`
	To       string `json:"to" validate:"required"`
	MinScore int    `json:"min_score" validate:"gte=1,lte=3"`
}

type searchRequest struct {
	Query    string `json:"query" validate:"required"`
	MinScore int    `json:"min_score" validate:"gte=1,lte=3"`
}

type bulkRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type domainRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}

type historyRequest struct {
	Limit  int    `json:"limit" validate:"gte=1,lte=500"`
	Action string `json:"action" validate:"omitempty,oneof=delete mark_read mark_unread"`
}

// validateStruct checks a request and converts failures into a single
// validation error naming each bad field
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return email.Validationf("invalid request: %v", err)
	}

	var msgs []string
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		field := jsonName(fe.Field())
		param := fe.Param()

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gte":
			msgs = append(msgs, field+" must be at least "+param)
		case "lte":
			msgs = append(msgs, field+" must be at most "+param)
		case "fqdn":
			msgs = append(msgs, field+" must be a domain name")
		case "oneof":
			msgs = append(msgs, field+" must be one of "+param)
		default:
			msgs = append(msgs, field+" is invalid")
		}
		details[field] = fe.Tag()
	}

	verr := email.Validationf("%s", strings.Join(msgs, ", "))
	for k, v := range details {
		verr = verr.WithDetail(k, v)
	}
	return verr
}

var fieldNames = map[string]string{
	"MinScore": "min_score",
	"IDs":      "ids",
}

func jsonName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}

// queryInt reads an integer query parameter. An absent or empty parameter
// yields def; anything that is not an integer is a validation error.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, email.Validationf("%s must be an integer, got %q", key, raw).
			WithDetail(key, "integer")
	}
	return n, nil
}

func parseRecent(c *fiber.Ctx) (recentRequest, error) {
	limit, err := queryInt(c, "limit", query.DefaultLimit)
	if err != nil {
		return recentRequest{}, err
	}
	req := recentRequest{Limit: limit}
	return req, validateStruct(req)
}

func parseScored(c *fiber.Ctx) (scoredRequest, error) {
	minScore, err := queryInt(c, "min_score", int(email.ImportanceLow))
	if err != nil {
		return scoredRequest{}, err
	}
	req := scoredRequest{MinScore: minScore}
	return req, validateStruct(req)
}

func parseDate(c *fiber.Ctx) (dateRequest, error) {
	scored, err := parseScored(c)
	if err != nil {
		return dateRequest{}, err
	}
	req := dateRequest{Date: c.Params("date"), MinScore: scored.MinScore}
	return req, validateStruct(req)
}

func parseRange(c *fiber.Ctx) (rangeRequest, error) {
	scored, err := parseScored(c)
	if err != nil {
		return rangeRequest{}, err
	}
	req := rangeRequest{From: c.Query("from"), To: c.Query("to"), MinScore: scored.MinScore}
	return req, validateStruct(req)
}

func parseSearch(c *fiber.Ctx) (searchRequest, error) {
	req := searchRequest{MinScore: int(email.ImportanceLow)}
	if err := c.BodyParser(&req); err != nil {
		return req, email.Validationf("invalid request body: %v", err)
	}
	if strings.TrimSpace(req.Query) == "" {
		return req, email.Validationf("search query cannot be empty").WithDetail("query", "required")
	}
	return req, validateStruct(req)
}

func parseBulk(c *fiber.Ctx) (bulkRequest, error) {
	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return req, email.Validationf("invalid request body: %v", err)
	}
	return req, validateStruct(req)
}

func parseDomain(c *fiber.Ctx) (domainRequest, error) {
	var req domainRequest
	if err := c.BodyParser(&req); err != nil {
		return req, email.Validationf("invalid request body: %v", err)
	}
	req.Domain = strings.ToLower(strings.TrimSpace(req.Domain))
	return req, validateStruct(req)
}

func parseHistory(c *fiber.Ctx) (historyRequest, error) {
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return historyRequest{}, err
	}
	req := historyRequest{Limit: limit, Action: c.Query("action")}
	return req, validateStruct(req)
}
