package web

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/dharti-automation/dharti-web/internal/fetch"
	"github.com/dharti-automation/dharti-web/internal/forms"
	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/gin-gonic/gin"
)

// FormView is a form's current values and its last submit result.
type FormView[F any] struct {
	Values  F
	Result  forms.Result
	Pending string
}

func (v FormView[F]) Error(field string) string { return v.Result.FieldError(field) }

func inquiryView(f *forms.Inquiry, res forms.Result) FormView[*forms.Inquiry] {
	return FormView[*forms.Inquiry]{Values: f, Result: res, Pending: forms.PendingInquiry}
}

func applicationView(f *forms.JobApplication, res forms.Result) FormView[*forms.JobApplication] {
	return FormView[*forms.JobApplication]{Values: f, Result: res, Pending: forms.PendingApplication}
}

func oemView(f *forms.OEMInquiry, res forms.Result) FormView[*forms.OEMInquiry] {
	return FormView[*forms.OEMInquiry]{Values: f, Result: res, Pending: forms.PendingOEM}
}

type jobsData struct {
	Jobs fetch.State[[]domain.Job]
	Form FormView[*forms.JobApplication]
	// Blank backs whichever application form is not the active one.
	Blank   FormView[*forms.JobApplication]
	OpenJob string
}

func (h *Handler) jobsData(ctx context.Context, form FormView[*forms.JobApplication]) jobsData {
	return jobsData{
		Jobs:  fetch.RunList(ctx, h.content.Jobs),
		Form:  form,
		Blank: applicationView(&forms.JobApplication{}, forms.Result{}),
	}
}

type contactData struct {
	Domains fetch.State[[]domain.Domain]
	Form    FormView[*forms.Inquiry]
}

func (h *Handler) contactData(ctx context.Context, form FormView[*forms.Inquiry]) contactData {
	return contactData{Domains: fetch.RunList(ctx, h.content.Domains), Form: form}
}

type oemData struct {
	Domains fetch.State[[]domain.Domain]
	Form    FormView[*forms.OEMInquiry]
}

func (h *Handler) oemData(ctx context.Context, form FormView[*forms.OEMInquiry]) oemData {
	return oemData{Domains: fetch.RunList(ctx, h.content.Domains), Form: form}
}

func (h *Handler) SubmitContact(c *gin.Context) {
	ctx := c.Request.Context()

	var f forms.Inquiry
	if err := c.ShouldBind(&f); err != nil {
		h.badForm(c, "contact.html", "Contact Us", "contact", h.contactData(ctx, inquiryView(&f, unreadable())), err)
		return
	}

	res := h.forms.SubmitInquiry(ctx, &f)
	if res.OK() {
		f = forms.Inquiry{}
	}
	h.render(c, statusFor(res), "contact.html", h.page(c, "Contact Us", "contact", h.contactData(ctx, inquiryView(&f, res))))
}

func (h *Handler) SubmitApplication(c *gin.Context) {
	ctx := c.Request.Context()

	var f forms.JobApplication
	if err := c.ShouldBind(&f); err != nil {
		data := h.jobsData(ctx, applicationView(&f, unreadable()))
		data.OpenJob = f.JobID
		h.badForm(c, "jobs.html", "Open Positions", "careers", data, err)
		return
	}
	cv, err := readUpload(c, "cv")
	if err != nil {
		data := h.jobsData(ctx, applicationView(&f, unreadable()))
		data.OpenJob = f.JobID
		h.badForm(c, "jobs.html", "Open Positions", "careers", data, err)
		return
	}
	f.CV = cv

	res := h.forms.SubmitApplication(ctx, &f)
	data := h.jobsData(ctx, applicationView(&f, res))
	if res.OK() {
		// Success resets the form and closes the job modal.
		data.Form = applicationView(&forms.JobApplication{}, res)
	} else {
		data.OpenJob = f.JobID
	}
	h.render(c, statusFor(res), "jobs.html", h.page(c, "Open Positions", "careers", data))
}

func (h *Handler) SubmitOEM(c *gin.Context) {
	ctx := c.Request.Context()

	var f forms.OEMInquiry
	if err := c.ShouldBind(&f); err != nil {
		h.badForm(c, "oem.html", "OEM & Prototyping", "oem", h.oemData(ctx, oemView(&f, unreadable())), err)
		return
	}
	report, err := readUpload(c, "report")
	if err != nil {
		h.badForm(c, "oem.html", "OEM & Prototyping", "oem", h.oemData(ctx, oemView(&f, unreadable())), err)
		return
	}
	f.Report = report

	res := h.forms.SubmitOEM(ctx, &f)
	if res.OK() {
		f = forms.OEMInquiry{}
	}
	h.render(c, statusFor(res), "oem.html", h.page(c, "OEM & Prototyping", "oem", h.oemData(ctx, oemView(&f, res))))
}

func (h *Handler) badForm(c *gin.Context, name, title, nav string, data any, err error) {
	logging.Operation(c.Request.Context(), "bind_form").Warnf("unreadable form body: %v", err)
	h.render(c, http.StatusBadRequest, name, h.page(c, title, nav, data))
}

func unreadable() forms.Result {
	return forms.Result{State: forms.Failed, Outcome: forms.NotSubmitted, Notice: forms.GenericFailureMessage}
}

func statusFor(res forms.Result) int {
	switch res.Outcome {
	case forms.Success:
		return http.StatusOK
	case forms.Unreachable:
		return http.StatusServiceUnavailable
	case forms.FailedStatus:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// readUpload returns the attached file, or nil when none was chosen. Files
// over the size limit are not read; validation rejects them by size.
func readUpload(c *gin.Context, field string) (*forms.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	up := &forms.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	if fh.Size == 0 || fh.Size > forms.MaxUploadBytes {
		return up, nil
	}
	data, err := readPart(fh)
	if err != nil {
		return nil, err
	}
	up.Data = data
	return up, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, forms.MaxUploadBytes+1))
}
