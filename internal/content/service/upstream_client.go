package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/dharti-automation/dharti-web/internal/logging"
)

// UpstreamClient talks to the content REST API
type UpstreamClient struct {
	baseURL       string
	defaultClient *http.Client
	uploadClient  *http.Client // multipart posts with CV or report files
}

// NewUpstreamClient creates a new upstream client. A zero timeout disables
// the client-side deadline; the request context still applies.
func NewUpstreamClient(baseURL string, timeout time.Duration) *UpstreamClient {
	upload := UploadTimeout
	if timeout == 0 {
		upload = 0
	}
	return &UpstreamClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		defaultClient: &http.Client{Timeout: timeout},
		uploadClient:  &http.Client{Timeout: upload},
	}
}

// BaseURL returns the API base every relative path is resolved against.
func (c *UpstreamClient) BaseURL() string {
	return c.baseURL
}

// Timeout is the per-request deadline for content reads, zero when disabled.
func (c *UpstreamClient) Timeout() time.Duration {
	return c.defaultClient.Timeout
}

type envelope map[string]json.RawMessage

// GetSettings fetches the site settings singleton
func (c *UpstreamClient) GetSettings(ctx context.Context) (*domain.Settings, error) {
	env, err := c.getEnvelope(ctx, "get_settings", "/api/settings")
	if err != nil {
		return nil, err
	}
	s, err := decodeItem[domain.Settings](env, "get_settings", "setting")
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.UpstreamError{Kind: domain.ErrUnsuccessful, Operation: "get_settings", Message: "response carried no setting"}
	}
	return s, err
}

// ListClients fetches every client project
func (c *UpstreamClient) ListClients(ctx context.Context) ([]domain.Project, error) {
	env, err := c.getEnvelope(ctx, "list_clients", "/api/clients")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Project](env, "list_clients", "projects")
}

// GetClient fetches one client project by id
func (c *UpstreamClient) GetClient(ctx context.Context, id string) (*domain.Project, error) {
	env, err := c.getEnvelope(ctx, "get_client", "/api/clients/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decodeItem[domain.Project](env, "get_client", "project")
}

// ListServices fetches every service offering
func (c *UpstreamClient) ListServices(ctx context.Context) ([]domain.Service, error) {
	env, err := c.getEnvelope(ctx, "list_services", "/api/services")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Service](env, "list_services", "services")
}

// GetService fetches one service by id
func (c *UpstreamClient) GetService(ctx context.Context, id string) (*domain.Service, error) {
	env, err := c.getEnvelope(ctx, "get_service", "/api/services/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decodeItem[domain.Service](env, "get_service", "service")
}

func (c *UpstreamClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	env, err := c.getEnvelope(ctx, "list_products", "/api/products")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Product](env, "list_products", "products")
}

func (c *UpstreamClient) ListJobs(ctx context.Context) ([]domain.Job, error) {
	env, err := c.getEnvelope(ctx, "list_jobs", "/api/jobs")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Job](env, "list_jobs", "jobs")
}

func (c *UpstreamClient) ListPosts(ctx context.Context) ([]domain.BlogPost, error) {
	env, err := c.getEnvelope(ctx, "list_posts", "/api/posts")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.BlogPost](env, "list_posts", "posts")
}

// ListTestimonials fetches testimonials; the API nests them under "clients".
func (c *UpstreamClient) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	env, err := c.getEnvelope(ctx, "list_testimonials", "/api/testimonials")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Testimonial](env, "list_testimonials", "clients")
}

// GetCertification returns the first certification record.
func (c *UpstreamClient) GetCertification(ctx context.Context) (*domain.Certification, error) {
	env, err := c.getEnvelope(ctx, "get_certification", "/api/certifications")
	if err != nil {
		return nil, err
	}
	items, err := decodeList[domain.Certification](env, "get_certification", "data")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &domain.UpstreamError{Kind: domain.ErrNotFound, Operation: "get_certification", StatusCode: http.StatusOK}
	}
	return &items[0], nil
}

func (c *UpstreamClient) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	env, err := c.getEnvelope(ctx, "list_domains", "/api/domains")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Domain](env, "list_domains", "domains")
}

// Ping reports whether the API answers at all.
func (c *UpstreamClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/settings", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.defaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseBytes))
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", domain.ErrUpstreamStatus, resp.StatusCode)
	}
	return nil
}

// SubmitResponse is the raw answer to a form post. Interpreting it is the
// caller's job; only transport failures are returned as errors.
type SubmitResponse struct {
	StatusCode int
	Body       []byte
}

// FormField is one text part of a multipart body.
type FormField struct {
	Name  string
	Value string
}

// FormFile is one file part of a multipart body.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// MultipartBody is an ordered set of text and file parts.
type MultipartBody struct {
	Fields []FormField
	Files  []FormFile
}

// SubmitInquiry posts the contact form as JSON
func (c *UpstreamClient) SubmitInquiry(ctx context.Context, payload any) (*SubmitResponse, error) {
	return c.postJSON(ctx, "submit_inquiry", "/api/inquiries", payload)
}

// SubmitApplication posts a job application with its CV
func (c *UpstreamClient) SubmitApplication(ctx context.Context, body MultipartBody) (*SubmitResponse, error) {
	return c.postMultipart(ctx, "submit_application", "/api/careers", body)
}

// SubmitOEM posts an OEM inquiry as JSON when no report is attached
func (c *UpstreamClient) SubmitOEM(ctx context.Context, payload any) (*SubmitResponse, error) {
	return c.postJSON(ctx, "submit_oem", "/api/oem", payload)
}

// SubmitOEMWithReport posts an OEM inquiry with its project report
func (c *UpstreamClient) SubmitOEMWithReport(ctx context.Context, body MultipartBody) (*SubmitResponse, error) {
	return c.postMultipart(ctx, "submit_oem", "/api/oem", body)
}

func (c *UpstreamClient) getEnvelope(ctx context.Context, op, path string) (envelope, error) {
	logger := logging.Operation(ctx, op)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		recordUpstreamCall(time.Since(start), err)
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	setRequestHeaders(ctx, req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.defaultClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.Error(err, "upstream request failed")
		recordUpstreamCall(duration, err)
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		logger.Error(err, "read upstream body")
		recordUpstreamCall(duration, err)
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		recordUpstreamCall(duration, nil)
		logger.Debug("upstream reported not found")
		return nil, &domain.UpstreamError{Kind: domain.ErrNotFound, Operation: op, StatusCode: resp.StatusCode, Message: messageOf(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &domain.UpstreamError{Kind: domain.ErrUpstreamStatus, Operation: op, StatusCode: resp.StatusCode, Message: messageOf(body)}
		logger.Warnf("upstream returned status %d", resp.StatusCode)
		recordUpstreamCall(duration, statusErr)
		return nil, statusErr
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env == nil {
		if err == nil {
			err = errors.New("body is not a JSON object")
		}
		logger.Error(err, "decode upstream body")
		recordUpstreamCall(duration, err)
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrDecode, err)
	}

	if !env.succeeded() {
		unsuccessful := &domain.UpstreamError{Kind: domain.ErrUnsuccessful, Operation: op, StatusCode: resp.StatusCode, Message: messageOf(body)}
		logger.Warn("upstream reported success=false")
		recordUpstreamCall(duration, unsuccessful)
		return nil, unsuccessful
	}

	recordUpstreamCall(duration, nil)
	logger.Debug(fmt.Sprintf("upstream call completed in %s", duration))
	return env, nil
}

// succeeded treats a missing success flag as success; only an explicit
// false (or a non-boolean) fails.
func (e envelope) succeeded() bool {
	raw, ok := e["success"]
	if !ok {
		return true
	}
	var ok2 bool
	if err := json.Unmarshal(raw, &ok2); err != nil {
		return false
	}
	return ok2
}

func (c *UpstreamClient) postJSON(ctx context.Context, op, path string, payload any) (*SubmitResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode payload: %w", op, err)
	}
	return c.post(ctx, c.defaultClient, op, path, "application/json", bytes.NewReader(data))
}

func (c *UpstreamClient) postMultipart(ctx context.Context, op, path string, body MultipartBody) (*SubmitResponse, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range body.Fields {
		if f.Value == "" {
			continue
		}
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("%s: write field %s: %w", op, f.Name, err)
		}
	}
	for _, f := range body.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, fmt.Errorf("%s: create file part: %w", op, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("%s: write file part: %w", op, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s: close multipart: %w", op, err)
	}
	return c.post(ctx, c.uploadClient, op, path, w.FormDataContentType(), buf)
}

func (c *UpstreamClient) post(ctx context.Context, client *http.Client, op, path, contentType string, body io.Reader) (*SubmitResponse, error) {
	logger := logging.Operation(ctx, op)
	start := time.Now()
	recordSubmission()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		recordUpstreamCall(time.Since(start), err)
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	setRequestHeaders(ctx, req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.Error(err, "upstream submit failed")
		recordUpstreamCall(duration, err)
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		logger.Error(err, "read upstream body")
		recordUpstreamCall(duration, err)
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		logger.Warnf("upstream returned status %d", resp.StatusCode)
		recordUpstreamCall(duration, fmt.Errorf("status %d", resp.StatusCode))
	} else {
		recordUpstreamCall(duration, nil)
	}
	return &SubmitResponse{StatusCode: resp.StatusCode, Body: data}, nil
}

func setRequestHeaders(ctx context.Context, req *http.Request) {
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}
}

func decodeList[T any](env envelope, op, field string) ([]T, error) {
	raw, ok := env[field]
	if !ok || isNull(raw) {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w: field %q: %w", op, domain.ErrDecode, field, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func decodeItem[T any](env envelope, op, field string) (*T, error) {
	raw, ok := env[field]
	if !ok || isNull(raw) {
		return nil, &domain.UpstreamError{Kind: domain.ErrNotFound, Operation: op, StatusCode: http.StatusOK}
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%s: %w: field %q: %w", op, domain.ErrDecode, field, err)
	}
	return &item, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// messageOf pulls a "message" or "error" string out of a JSON body, if any.
func messageOf(body []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}
