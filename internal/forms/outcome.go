package forms

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
	contentservice "github.com/dharti-automation/dharti-web/internal/content/service"
)

// Outcome classifies how a submission ended.
type Outcome int

const (
	// NotSubmitted means validation stopped the form before any network call.
	NotSubmitted Outcome = iota
	Success
	// Rejected means the server answered and refused the submission.
	Rejected
	// FailedStatus means a non-2xx response with nothing usable in the body.
	FailedStatus
	// Unreachable means the request never got an answer.
	Unreachable
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	case FailedStatus:
		return "failed"
	case Unreachable:
		return "unreachable"
	}
	return "not_submitted"
}

const (
	GenericFailureMessage = "Failed to submit. Please try again."
	ConnectionMessage     = "Error connecting to server."
)

// Result is what the page renders after a submit.
type Result struct {
	State   State
	Outcome Outcome
	Notice  string
	Errors  Violations
}

func (r Result) OK() bool { return r.Outcome == Success }

// FieldError returns the message for one field, or "".
func (r Result) FieldError(name string) string {
	return r.Errors[name]
}

type serverReply struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

type serverFieldError struct {
	Field   string `json:"field"`
	Path    string `json:"path"`
	Param   string `json:"param"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

// Interpret maps an upstream answer, or transport error, to an outcome.
func Interpret(resp *contentservice.SubmitResponse, err error, successNotice string) Result {
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return Result{State: Failed, Outcome: Unreachable, Notice: ConnectionMessage}
		}
		return Result{State: Failed, Outcome: FailedStatus, Notice: GenericFailureMessage}
	}

	var reply serverReply
	decoded := json.Unmarshal(resp.Body, &reply) == nil

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if !decoded || reply.Success == nil || *reply.Success {
			return Result{State: Succeeded, Outcome: Success, Notice: successNotice}
		}
		return rejected(reply)
	}

	if resp.StatusCode >= 400 && resp.StatusCode <= 499 && decoded && (reply.message() != "" || len(fieldErrors(reply.Errors)) > 0) {
		return rejected(reply)
	}
	return Result{State: Failed, Outcome: FailedStatus, Notice: GenericFailureMessage}
}

func rejected(reply serverReply) Result {
	res := Result{State: Failed, Outcome: Rejected, Errors: fieldErrors(reply.Errors)}
	switch {
	case reply.message() != "":
		res.Notice = reply.message()
	case len(res.Errors) > 0:
		res.Notice = firstSorted(res.Errors)
	default:
		res.Notice = GenericFailureMessage
	}
	return res
}

func (r serverReply) message() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// fieldErrors accepts {"field":"msg"} objects and [{field,message}] lists.
func fieldErrors(raw json.RawMessage) Violations {
	out := Violations{}
	if len(raw) == 0 {
		return out
	}

	var byField map[string]string
	if err := json.Unmarshal(raw, &byField); err == nil {
		for k, v := range byField {
			if v != "" {
				out[k] = v
			}
		}
		return out
	}

	var list []serverFieldError
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, fe := range list {
			name := firstNonEmpty(fe.Field, fe.Path, fe.Param)
			msg := firstNonEmpty(fe.Message, fe.Msg)
			if name == "" || msg == "" {
				continue
			}
			if _, seen := out[name]; !seen {
				out[name] = msg
			}
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstSorted(v Violations) string {
	best := ""
	for k := range v {
		if best == "" || k < best {
			best = k
		}
	}
	return v[best]
}

// Notices shown while a form posts and after it succeeds.
const (
	PendingInquiry     = "Sending your message..."
	PendingApplication = "Submitting your application..."
	PendingOEM         = "Submitting your inquiry..."

	InquirySent          = "Thank you! Your message has been sent."
	ApplicationSubmitted = "Application submitted successfully!"
	OEMSubmitted         = "Your inquiry has been submitted. Our team will reach out shortly."
)
