package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dharti-automation/dharti-web/internal/assets"
	"github.com/dharti-automation/dharti-web/internal/content/domain"
	contentservice "github.com/dharti-automation/dharti-web/internal/content/service"
	"github.com/dharti-automation/dharti-web/internal/forms"
	formservice "github.com/dharti-automation/dharti-web/internal/forms/service"
	"github.com/dharti-automation/dharti-web/internal/settings"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIBase = "https://api.example.com"

var errBoom = errors.New("upstream down")

type fakeContent struct {
	clients      []domain.Project
	clientByID   map[string]*domain.Project
	services     []domain.Service
	serviceByID  map[string]*domain.Service
	products     []domain.Product
	productsErr  error
	jobs         []domain.Job
	posts        []domain.BlogPost
	testimonials []domain.Testimonial
	cert         *domain.Certification
	domains      []domain.Domain
	invalidated  int64
}

func (f *fakeContent) Clients(context.Context) ([]domain.Project, error) { return f.clients, nil }

func (f *fakeContent) Client(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := f.clientByID[id]; ok {
		return p, nil
	}
	return nil, &domain.UpstreamError{Kind: domain.ErrNotFound, Operation: "get_client", StatusCode: http.StatusNotFound}
}

func (f *fakeContent) Services(context.Context) ([]domain.Service, error) { return f.services, nil }

func (f *fakeContent) Service(_ context.Context, id string) (*domain.Service, error) {
	if s, ok := f.serviceByID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeContent) Products(context.Context) ([]domain.Product, error) {
	return f.products, f.productsErr
}

func (f *fakeContent) Jobs(context.Context) ([]domain.Job, error)       { return f.jobs, nil }
func (f *fakeContent) Posts(context.Context) ([]domain.BlogPost, error) { return f.posts, nil }

func (f *fakeContent) Testimonials(context.Context) ([]domain.Testimonial, error) {
	return f.testimonials, nil
}

func (f *fakeContent) Certification(context.Context) (*domain.Certification, error) {
	if f.cert == nil {
		return nil, domain.ErrNotFound
	}
	return f.cert, nil
}

func (f *fakeContent) Domains(context.Context) ([]domain.Domain, error) { return f.domains, nil }

func (f *fakeContent) Resource(ctx context.Context, name string) (any, error) {
	switch name {
	case "clients":
		return f.Clients(ctx)
	case "certifications":
		return f.Certification(ctx)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeContent) Invalidate(context.Context) (int, error) {
	atomic.AddInt64(&f.invalidated, 1)
	return 3, nil
}

type fakeSettings struct {
	value *domain.Settings
	err   error
}

func (f *fakeSettings) Settings(context.Context) (*domain.Settings, error) { return f.value, f.err }

type fakePoster struct {
	calls  int64
	status int
	body   string
	err    error
}

func (p *fakePoster) reply() (*contentservice.SubmitResponse, error) {
	atomic.AddInt64(&p.calls, 1)
	if p.err != nil {
		return nil, p.err
	}
	return &contentservice.SubmitResponse{StatusCode: p.status, Body: []byte(p.body)}, nil
}

func (p *fakePoster) SubmitInquiry(context.Context, any) (*contentservice.SubmitResponse, error) {
	return p.reply()
}

func (p *fakePoster) SubmitApplication(context.Context, contentservice.MultipartBody) (*contentservice.SubmitResponse, error) {
	return p.reply()
}

func (p *fakePoster) SubmitOEM(context.Context, any) (*contentservice.SubmitResponse, error) {
	return p.reply()
}

func (p *fakePoster) SubmitOEMWithReport(context.Context, contentservice.MultipartBody) (*contentservice.SubmitResponse, error) {
	return p.reply()
}

func loadedProvider(t *testing.T, s *domain.Settings) *settings.Provider {
	t.Helper()
	p := settings.NewProvider(&fakeSettings{value: s})
	require.NoError(t, p.Load(context.Background()))
	return p
}

func setupRouter(t *testing.T, content Content, site SiteProvider, poster *fakePoster) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, err := New(Deps{
		Content:         content,
		Site:            site,
		Forms:           formservice.NewSubmitter(poster),
		Assets:          assets.NewResolver(testAPIBase),
		InvalidateToken: "secret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.Use(gin.CustomRecovery(h.Recover))
	h.Register(r, Middleware{})
	r.NoRoute(h.RequireSettings, h.NotFound)
	return r, h
}

func defaultSettings() *domain.Settings {
	return &domain.Settings{
		CompanyName: "Dharti Automation",
		Email:       "hello@dharti.example",
		Colours:     &domain.Colours{Primary: "#112233", Accent: "url(javascript:alert(1))"},
	}
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHome_RendersSectionsIndependently(t *testing.T) {
	content := &fakeContent{
		clients: []domain.Project{
			{ID: "c1", ClientName: "Acme", Logo: "uploads/acme.png"},
			{ID: "c2", ClientName: "Globex", Logo: "/uploads/globex.png"},
			{ID: "c3", ClientName: "Initech"},
		},
		services:    []domain.Service{{ID: "s1", Title: "Automation"}, {ID: "s2", Title: "Panels"}},
		productsErr: errBoom,
		testimonials: []domain.Testimonial{
			{ID: "t1", ClientName: "Acme", Rating: 4.5, Feedback: "Great work"},
			{ID: "t2", ClientName: "Nobody", Rating: 0, Feedback: "unrated feedback"},
		},
	}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), &fakePoster{})

	rr := get(r, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Equal(t, 3, strings.Count(body, `class="slide client"`))
	assert.Equal(t, 2, strings.Count(body, `class="slide service-card"`))
	assert.Contains(t, body, "Could not load products.")
	assert.Equal(t, 1, strings.Count(body, `class="slide testimonial"`))
	assert.NotContains(t, body, "unrated feedback")
	assert.Contains(t, body, testAPIBase+"/uploads/acme.png")
	assert.Contains(t, body, testAPIBase+"/uploads/globex.png")
	assert.Contains(t, body, "No posts yet.")
	assert.Contains(t, body, "Dharti Automation")
}

func TestHome_BindsThemeAtRoot(t *testing.T) {
	r, _ := setupRouter(t, &fakeContent{}, loadedProvider(t, defaultSettings()), &fakePoster{})

	body := get(r, "/").Body.String()
	assert.Contains(t, body, ":root{--primary:#112233;--secondary:#ffffff;--accent:#2563eb;--surface:#f3f4f6}")
	assert.NotContains(t, body, "javascript")
}

func TestHome_CarouselDropsLoopForFewItems(t *testing.T) {
	content := &fakeContent{clients: []domain.Project{{ID: "a"}, {ID: "b"}}}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), &fakePoster{})

	body := get(r, "/").Body.String()
	assert.Contains(t, body, `data-carousel-count="2" data-carousel-loop="false"`)
}

func TestClientDetail_NotFound(t *testing.T) {
	r, _ := setupRouter(t, &fakeContent{}, loadedProvider(t, defaultSettings()), &fakePoster{})

	rr := get(r, "/clients/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Not found")
}

func TestClientDetail_MismatchedRecordIsNotFound(t *testing.T) {
	content := &fakeContent{clientByID: map[string]*domain.Project{
		"c1": {ID: "c2", ClientName: "Someone else"},
	}}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), &fakePoster{})

	rr := get(r, "/clients/c1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Someone else")
}

func TestClientDetail_RendersRichText(t *testing.T) {
	content := &fakeContent{clientByID: map[string]*domain.Project{
		"c1": {
			ID:                     "c1",
			ClientName:             "Acme",
			Logo:                   "uploads/logo.png",
			ProjectLongDescription: `<p>Scope</p><img src="/uploads/site.jpg"><img src="https://cdn.example.com/x.png">`,
		},
	}}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), &fakePoster{})

	rr := get(r, "/clients/c1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<img src="`+testAPIBase+`/uploads/site.jpg">`)
	assert.Contains(t, body, `<img src="https://cdn.example.com/x.png">`)
	assert.Contains(t, body, testAPIBase+"/uploads/logo.png")
}

func TestServiceDetail_EmptyDescriptionFallback(t *testing.T) {
	content := &fakeContent{serviceByID: map[string]*domain.Service{"s1": {ID: "s1", Title: "Panels"}}}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), &fakePoster{})

	rr := get(r, "/services/s1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<p>No description provided.</p>")
}

func TestCertifications_EmptyShowsMessage(t *testing.T) {
	r, _ := setupRouter(t, &fakeContent{}, loadedProvider(t, defaultSettings()), &fakePoster{})

	rr := get(r, "/certifications")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No certifications available.")
}

func TestRequireSettings_LoadingPage(t *testing.T) {
	p := settings.NewProvider(&fakeSettings{value: defaultSettings()})
	r, _ := setupRouter(t, &fakeContent{}, p, &fakePoster{})

	rr := get(r, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "Loading...")
	assert.NotContains(t, rr.Body.String(), "Trusted By")
}

func TestRequireSettings_ErrorPageWithRetry(t *testing.T) {
	p := settings.NewProvider(&fakeSettings{err: errBoom})
	require.Error(t, p.Load(context.Background()))
	r, _ := setupRouter(t, &fakeContent{}, p, &fakePoster{})

	rr := get(r, "/services")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `action="/settings/retry"`)
	assert.Contains(t, rr.Body.String(), "Retry")
}

func TestRetrySettings_Redirects(t *testing.T) {
	src := &fakeSettings{err: errBoom}
	p := settings.NewProvider(src)
	require.Error(t, p.Load(context.Background()))
	r, _ := setupRouter(t, &fakeContent{}, p, &fakePoster{})

	src.err = nil
	src.value = defaultSettings()

	req := httptest.NewRequest(http.MethodPost, "/settings/retry", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	_, ok := p.Site()
	assert.True(t, ok)
}

func TestSubmitApplication_WithoutCVNeverPosts(t *testing.T) {
	poster := &fakePoster{status: http.StatusOK, body: `{"success":true}`}
	r, _ := setupRouter(t, &fakeContent{jobs: []domain.Job{{ID: "j1", Title: "Engineer"}}}, loadedProvider(t, defaultSettings()), poster)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Asha"))
	require.NoError(t, mw.WriteField("email", "asha@example.com"))
	require.NoError(t, mw.WriteField("phone", "9876543210"))
	require.NoError(t, mw.WriteField("jobId", "j1"))
	require.NoError(t, mw.WriteField("jobTitle", "Engineer"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/jobs/apply", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, int64(0), atomic.LoadInt64(&poster.calls))
	body := rr.Body.String()
	assert.Contains(t, body, forms.MissingCVMessage)
	assert.Contains(t, body, `id="apply-modal"`)
	assert.Contains(t, body, `value="Asha"`)
}

func TestSubmitApplication_SuccessClosesModal(t *testing.T) {
	poster := &fakePoster{status: http.StatusCreated, body: `{"success":true}`}
	r, _ := setupRouter(t, &fakeContent{jobs: []domain.Job{{ID: "j1", Title: "Engineer"}}}, loadedProvider(t, defaultSettings()), poster)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Asha"))
	require.NoError(t, mw.WriteField("email", "asha@example.com"))
	require.NoError(t, mw.WriteField("phone", "9876543210"))
	require.NoError(t, mw.WriteField("jobId", "j1"))
	fw, err := mw.CreateFormFile("cv", "cv.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/jobs/apply", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), atomic.LoadInt64(&poster.calls))
	body := rr.Body.String()
	assert.Contains(t, body, forms.ApplicationSubmitted)
	assert.NotContains(t, body, `id="apply-modal"`)
	assert.NotContains(t, body, `value="Asha"`)
}

func TestSubmitContact_InvalidKeepsInput(t *testing.T) {
	poster := &fakePoster{status: http.StatusOK, body: `{"success":true}`}
	content := &fakeContent{domains: []domain.Domain{{ID: "d1", Name: "Robotics"}, {ID: "d2", Name: "IoT"}}}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), poster)

	form := url.Values{
		"firstName": {"Ravi"}, "lastName": {"Kumar"}, "email": {"not-an-email"}, "contactNo1": {"12345"},
		"domain": {"d2"}, "message": {"Hi"}, "city": {"Patna"},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, int64(0), atomic.LoadInt64(&poster.calls))
	body := rr.Body.String()
	assert.Contains(t, body, "Please enter a valid email address.")
	assert.Contains(t, body, `value="Ravi"`)
	assert.Contains(t, body, `value="Patna"`)
	assert.Contains(t, body, `<option value="d2" selected>IoT</option>`)
}

func TestSubmitContact_UnreachableServer(t *testing.T) {
	poster := &fakePoster{err: domain.ErrUpstreamUnavailable}
	r, _ := setupRouter(t, &fakeContent{}, loadedProvider(t, defaultSettings()), poster)

	form := url.Values{
		"firstName": {"Ravi"}, "lastName": {"Kumar"}, "email": {"ravi@example.com"}, "contactNo1": {"9876543210"},
		"domain": {"d1"}, "message": {"Hi"},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), forms.ConnectionMessage)
	assert.Contains(t, rr.Body.String(), `value="Ravi"`)
}

func TestSubmitOEM_RequiresAgreement(t *testing.T) {
	poster := &fakePoster{status: http.StatusOK, body: `{"success":true}`}
	content := &fakeContent{domains: []domain.Domain{{ID: "d1", Name: "Robotics"}}}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), poster)

	form := url.Values{
		"firstName": {"A"}, "lastName": {"B"}, "email": {"a@b.co"}, "contactNo1": {"9876543210"},
		"domain": {"d1"}, "projectDescription": {"A sorter"},
	}
	req := httptest.NewRequest(http.MethodPost, "/oem", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, int64(0), atomic.LoadInt64(&poster.calls))
	body := rr.Body.String()
	assert.Contains(t, body, "Please accept the agreement to continue.")
	assert.Contains(t, body, `<option value="d1" selected>Robotics</option>`)
}

func TestContentJSON_ResolvesImages(t *testing.T) {
	content := &fakeContent{clients: []domain.Project{{ID: "c1", Logo: "uploads/a.png", Gallery: []string{"/uploads/b.png", ""}}}}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), &fakePoster{})

	rr := get(r, "/content/clients")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool             `json:"success"`
		Clients []domain.Project `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, testAPIBase+"/uploads/a.png", resp.Clients[0].Logo)
	assert.Equal(t, []string{testAPIBase + "/uploads/b.png"}, resp.Clients[0].Gallery)
	assert.Equal(t, "uploads/a.png", content.clients[0].Logo)

	assert.Equal(t, http.StatusNotFound, get(r, "/content/nope").Code)
}

func TestInvalidateCache_RequiresToken(t *testing.T) {
	content := &fakeContent{}
	r, _ := setupRouter(t, content, loadedProvider(t, defaultSettings()), &fakePoster{})

	req := httptest.NewRequest(http.MethodPost, "/cache/invalidate", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, int64(0), atomic.LoadInt64(&content.invalidated))

	req = httptest.NewRequest(http.MethodPost, "/cache/invalidate", nil)
	req.Header.Set(InvalidateTokenHeader, "secret")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), atomic.LoadInt64(&content.invalidated))
}

func TestThemeCSS_DefaultsBeforeLoad(t *testing.T) {
	p := settings.NewProvider(&fakeSettings{value: defaultSettings()})
	r, _ := setupRouter(t, &fakeContent{}, p, &fakePoster{})

	rr := get(r, "/theme.css")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ":root{--primary:#000000;--secondary:#ffffff;--accent:#2563eb;--surface:#f3f4f6}", rr.Body.String())
}

func TestRecover_RendersErrorPage(t *testing.T) {
	r, _ := setupRouter(t, &fakeContent{}, loadedProvider(t, defaultSettings()), &fakePoster{})
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	rr := get(r, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Something went wrong")
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	r, _ := setupRouter(t, &fakeContent{}, loadedProvider(t, defaultSettings()), &fakePoster{})

	rr := get(r, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Not found")
}
