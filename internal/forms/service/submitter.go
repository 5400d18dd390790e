package service

import (
	"context"

	contentservice "github.com/dharti-automation/dharti-web/internal/content/service"
	"github.com/dharti-automation/dharti-web/internal/forms"
	"github.com/dharti-automation/dharti-web/internal/logging"
)

// Poster sends validated forms to the content API.
type Poster interface {
	SubmitInquiry(ctx context.Context, payload any) (*contentservice.SubmitResponse, error)
	SubmitApplication(ctx context.Context, body contentservice.MultipartBody) (*contentservice.SubmitResponse, error)
	SubmitOEM(ctx context.Context, payload any) (*contentservice.SubmitResponse, error)
	SubmitOEMWithReport(ctx context.Context, body contentservice.MultipartBody) (*contentservice.SubmitResponse, error)
}

// Submitter runs each form through validate-then-submit.
type Submitter struct {
	poster Poster
}

func NewSubmitter(poster Poster) *Submitter {
	return &Submitter{poster: poster}
}

// SubmitInquiry validates and posts the contact form as JSON.
func (s *Submitter) SubmitInquiry(ctx context.Context, f *forms.Inquiry) forms.Result {
	return s.run(ctx, "inquiry", f, forms.InquirySent, func(ctx context.Context) (*contentservice.SubmitResponse, error) {
		return s.poster.SubmitInquiry(ctx, f)
	})
}

// SubmitApplication validates and posts a job application with its CV.
func (s *Submitter) SubmitApplication(ctx context.Context, f *forms.JobApplication) forms.Result {
	return s.run(ctx, "application", f, forms.ApplicationSubmitted, func(ctx context.Context) (*contentservice.SubmitResponse, error) {
		return s.poster.SubmitApplication(ctx, f.Multipart())
	})
}

// SubmitOEM posts multipart when a report is attached and JSON otherwise.
func (s *Submitter) SubmitOEM(ctx context.Context, f *forms.OEMInquiry) forms.Result {
	return s.run(ctx, "oem", f, forms.OEMSubmitted, func(ctx context.Context) (*contentservice.SubmitResponse, error) {
		if f.HasReport() {
			return s.poster.SubmitOEMWithReport(ctx, f.Multipart())
		}
		return s.poster.SubmitOEM(ctx, f)
	})
}

func (s *Submitter) run(ctx context.Context, kind string, f forms.Form, successNotice string,
	send func(context.Context) (*contentservice.SubmitResponse, error)) forms.Result {
	logger := logging.Operation(ctx, "submit_"+kind)
	m := forms.NewMachine()

	f.Normalize()
	_ = m.To(forms.Validating)
	if violations := f.Validate(); len(violations) > 0 {
		_ = m.To(forms.Invalid)
		logger.Debug("form rejected by validation")
		res := forms.Result{
			State:   m.State(),
			Outcome: forms.NotSubmitted,
			Notice:  forms.FirstViolation(violations, f.Order()),
			Errors:  violations,
		}
		_ = m.To(forms.Editing)
		return res
	}

	_ = m.To(forms.Submitting)
	resp, err := send(ctx)
	res := forms.Interpret(resp, err, successNotice)
	if res.OK() {
		_ = m.To(forms.Succeeded)
	} else {
		_ = m.To(forms.Failed)
	}
	res.State = m.State()

	if res.OK() {
		logger.Info("form submitted")
	} else {
		logger.Warnf("form submission ended as %s", res.Outcome)
	}
	return res
}
