package forms

import (
	"strings"

	contentservice "github.com/dharti-automation/dharti-web/internal/content/service"
)

// Form is a submission that validates itself before any network call.
type Form interface {
	Normalize()
	Validate() Violations
	Order() []string
}

// MissingCVMessage blocks a job application without a CV.
const MissingCVMessage = "Please upload your CV before submitting."

// Inquiry is the contact form, posted as JSON.
type Inquiry struct {
	FirstName  string `form:"firstName" json:"firstName" validate:"present"`
	LastName   string `form:"lastName" json:"lastName" validate:"present"`
	Email      string `form:"email" json:"email" validate:"present,simple_email"`
	ContactNo1 string `form:"contactNo1" json:"contactNo1" validate:"present,digits,min=10"`
	ContactNo2 string `form:"contactNo2" json:"contactNo2,omitempty" validate:"omitempty,digits,min=10"`
	DomainID   string `form:"domain" json:"domain" validate:"present"`
	Message    string `form:"message" json:"message" validate:"present"`
	Country    string `form:"country" json:"country,omitempty"`
	State      string `form:"state" json:"state,omitempty"`
	City       string `form:"city" json:"city,omitempty"`
}

var inquiryLabels = map[string]string{
	"firstName":  "First name",
	"lastName":   "Last name",
	"email":      "Email",
	"contactNo1": "Contact number",
	"contactNo2": "Alternate contact number",
	"domain":     "Domain",
	"message":    "Message",
}

func (f *Inquiry) Normalize() {
	trim(&f.FirstName, &f.LastName, &f.Email, &f.ContactNo1, &f.ContactNo2,
		&f.DomainID, &f.Message, &f.Country, &f.State, &f.City)
}

func (f *Inquiry) Validate() Violations {
	return validateStruct(f, inquiryLabels)
}

func (f *Inquiry) Order() []string {
	return []string{"firstName", "lastName", "email", "contactNo1", "contactNo2", "domain", "message", "country", "state", "city"}
}

// JobApplication is posted as multipart with the CV attached.
type JobApplication struct {
	Name     string  `form:"name" validate:"present"`
	Email    string  `form:"email" validate:"present,simple_email"`
	Phone    string  `form:"phone" validate:"present,digits,min=10"`
	Details  string  `form:"details"`
	JobID    string  `form:"jobId"`
	JobTitle string  `form:"jobTitle"`
	CV       *Upload `form:"-" validate:"-"`
}

var applicationLabels = map[string]string{
	"name":  "Full name",
	"email": "Email",
	"phone": "Phone number",
}

func (f *JobApplication) Normalize() {
	trim(&f.Name, &f.Email, &f.Phone, &f.Details, &f.JobID, &f.JobTitle)
}

func (f *JobApplication) Validate() Violations {
	v := validateStruct(f, applicationLabels)
	if f.CV == nil || f.CV.Size == 0 {
		v["cv"] = MissingCVMessage
	} else if msg := checkUpload(f.CV); msg != "" {
		v["cv"] = msg
	}
	return v
}

func (f *JobApplication) Order() []string {
	return []string{"name", "email", "phone", "details", "cv"}
}

// Multipart builds the careers payload. Empty fields are left out.
func (f *JobApplication) Multipart() contentservice.MultipartBody {
	body := contentservice.MultipartBody{
		Fields: []contentservice.FormField{
			{Name: "name", Value: f.Name},
			{Name: "email", Value: f.Email},
			{Name: "phone", Value: f.Phone},
			{Name: "details", Value: f.Details},
			{Name: "jobId", Value: f.JobID},
			{Name: "jobTitle", Value: f.JobTitle},
		},
	}
	if f.CV != nil {
		body.Files = append(body.Files, contentservice.FormFile{
			Field: "cv", Filename: f.CV.Filename, ContentType: f.CV.ContentType, Data: f.CV.Data,
		})
	}
	return body
}

// OEMInquiry is the OEM and prototyping request. The project report is optional.
type OEMInquiry struct {
	FirstName          string  `form:"firstName" json:"firstName" validate:"present"`
	LastName           string  `form:"lastName" json:"lastName" validate:"present"`
	Email              string  `form:"email" json:"email" validate:"present,simple_email"`
	ContactNo1         string  `form:"contactNo1" json:"contactNo1" validate:"present,digits,min=10"`
	ContactNo2         string  `form:"contactNo2" json:"contactNo2,omitempty" validate:"omitempty,digits,min=6"`
	Company            string  `form:"company" json:"company,omitempty"`
	DomainID           string  `form:"domain" json:"domain" validate:"present"`
	ProjectDescription string  `form:"projectDescription" json:"projectDescription" validate:"present"`
	Agreement          bool    `form:"agreement" json:"agreement" validate:"checked"`
	Report             *Upload `form:"-" json:"-" validate:"-"`
}

var oemLabels = map[string]string{
	"firstName":          "First name",
	"lastName":           "Last name",
	"email":              "Email",
	"contactNo1":         "Contact number",
	"contactNo2":         "Alternate contact number",
	"domain":             "Domain",
	"projectDescription": "Project description",
}

func (f *OEMInquiry) Normalize() {
	trim(&f.FirstName, &f.LastName, &f.Email, &f.ContactNo1, &f.ContactNo2, &f.Company, &f.DomainID, &f.ProjectDescription)
}

func (f *OEMInquiry) Validate() Violations {
	v := validateStruct(f, oemLabels)
	if f.Report != nil && f.Report.Size > 0 {
		if msg := checkUpload(f.Report); msg != "" {
			v["report"] = msg
		}
	}
	return v
}

func (f *OEMInquiry) Order() []string {
	return []string{"firstName", "lastName", "email", "contactNo1", "contactNo2", "company", "domain", "projectDescription", "report", "agreement"}
}

// HasReport reports whether a report file is attached.
func (f *OEMInquiry) HasReport() bool {
	return f.Report != nil && f.Report.Size > 0
}

// Multipart builds the payload used when a report is attached.
func (f *OEMInquiry) Multipart() contentservice.MultipartBody {
	agreement := ""
	if f.Agreement {
		agreement = "true"
	}
	body := contentservice.MultipartBody{
		Fields: []contentservice.FormField{
			{Name: "firstName", Value: f.FirstName},
			{Name: "lastName", Value: f.LastName},
			{Name: "email", Value: f.Email},
			{Name: "contactNo1", Value: f.ContactNo1},
			{Name: "contactNo2", Value: f.ContactNo2},
			{Name: "company", Value: f.Company},
			{Name: "domain", Value: f.DomainID},
			{Name: "projectDescription", Value: f.ProjectDescription},
			{Name: "agreement", Value: agreement},
		},
	}
	if f.HasReport() {
		body.Files = append(body.Files, contentservice.FormFile{
			Field: "report", Filename: f.Report.Filename, ContentType: f.Report.ContentType, Data: f.Report.Data,
		})
	}
	return body
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
