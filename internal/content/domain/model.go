package domain

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Display fallbacks used when the settings record leaves a field empty.
const (
	DefaultCompanyName = "Company"
	DefaultPhoneNo     = "+91 00000 00000"
	DefaultEmail       = "support@company.com"
	DefaultLocation    = "Location, City, Country"
	DefaultDescription = "Driving innovation with tailored solutions."
)

// Settings is the site-wide singleton fetched once at startup.
type Settings struct {
	CompanyName string            `json:"companyName"`
	CompanyLogo string            `json:"companyLogo"`
	PhoneNo     string            `json:"phoneNo"`
	Email       string            `json:"email"`
	Location    string            `json:"location"`
	Description string            `json:"description"`
	Colours     *Colours          `json:"colours,omitempty"`
	Social      map[string]string `json:"social,omitempty"`
}

// Colours holds the four optional theme slots.
type Colours struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Surface   string `json:"surface"`
}

// SocialLink is one non-empty entry of Settings.Social.
type SocialLink struct {
	Platform string
	URL      string
}

func (s Settings) DisplayName() string        { return orDefault(s.CompanyName, DefaultCompanyName) }
func (s Settings) DisplayPhone() string       { return orDefault(s.PhoneNo, DefaultPhoneNo) }
func (s Settings) DisplayEmail() string       { return orDefault(s.Email, DefaultEmail) }
func (s Settings) DisplayLocation() string    { return orDefault(s.Location, DefaultLocation) }
func (s Settings) DisplayDescription() string { return orDefault(s.Description, DefaultDescription) }

// ActiveSocials returns the social links with a non-blank URL, sorted by platform.
func (s Settings) ActiveSocials() []SocialLink {
	links := make([]SocialLink, 0, len(s.Social))
	for platform, url := range s.Social {
		if strings.TrimSpace(url) == "" {
			continue
		}
		links = append(links, SocialLink{Platform: platform, URL: strings.TrimSpace(url)})
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Platform < links[j].Platform })
	return links
}

// Project is a client engagement; the API serves it from /api/clients.
type Project struct {
	ID                     string   `json:"id"`
	ClientName             string   `json:"clientName"`
	ProjectName            string   `json:"projectName"`
	Logo                   string   `json:"logo"`
	Gallery                []string `json:"gallery"`
	ProjectDescription     string   `json:"projectDescription"`
	ProjectLongDescription string   `json:"projectLongDescription"`
	Rating                 Number   `json:"rating"`
}

func (p *Project) UnmarshalJSON(b []byte) error {
	type alias Project
	return unmarshalWithID(b, (*alias)(p), &p.ID)
}

// Images returns the logo followed by the gallery, skipping blank paths.
func (p Project) Images() []string {
	images := make([]string, 0, len(p.Gallery)+1)
	if strings.TrimSpace(p.Logo) != "" {
		images = append(images, p.Logo)
	}
	for _, g := range p.Gallery {
		if strings.TrimSpace(g) != "" {
			images = append(images, g)
		}
	}
	return images
}

func (p Project) HasImages() bool { return len(p.Images()) > 0 }

type Service struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	LongDescription string `json:"longDescription"`
	Thumbnail       string `json:"thumbnail"`
}

func (s *Service) UnmarshalJSON(b []byte) error {
	type alias Service
	return unmarshalWithID(b, (*alias)(s), &s.ID)
}

type Product struct {
	ID              string `json:"id"`
	ProductName     string `json:"productName"`
	Description     string `json:"description"`
	Image           string `json:"image"`
	Price           Number `json:"price"`
	SellingPrice    Number `json:"sellingPrice"`
	ProductCategory string `json:"productCategory"`
}

func (p *Product) UnmarshalJSON(b []byte) error {
	type alias Product
	return unmarshalWithID(b, (*alias)(p), &p.ID)
}

// Discounted reports whether the selling price undercuts the list price.
func (p Product) Discounted() bool {
	return p.SellingPrice > 0 && p.Price > 0 && p.SellingPrice < p.Price
}

type Location struct {
	Type string `json:"type"`
	City string `json:"city"`
}

type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	EmploymentType  string   `json:"employmentType"`
	Location        Location `json:"location"`
	ExperienceLevel string   `json:"experienceLevel"`
}

func (j *Job) UnmarshalJSON(b []byte) error {
	type alias Job
	return unmarshalWithID(b, (*alias)(j), &j.ID)
}

// DefaultExcerptLength is the blog card excerpt length in runes.
const DefaultExcerptLength = 120

type BlogPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   Timestamp `json:"createdAt"`
}

func (p *BlogPost) UnmarshalJSON(b []byte) error {
	type alias BlogPost
	return unmarshalWithID(b, (*alias)(p), &p.ID)
}

// Excerpt truncates the description to n runes and appends "...".
func (p BlogPost) Excerpt(n int) string {
	if n <= 0 {
		n = DefaultExcerptLength
	}
	if utf8.RuneCountInString(p.Description) <= n {
		return p.Description
	}
	runes := []rune(p.Description)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// Testimonial shares the project shape and adds the client's feedback.
type Testimonial struct {
	ID          string `json:"id"`
	ClientName  string `json:"clientName"`
	ProjectName string `json:"projectName"`
	Logo        string `json:"logo"`
	Rating      Number `json:"rating"`
	Feedback    string `json:"feedback"`
}

func (t *Testimonial) UnmarshalJSON(b []byte) error {
	type alias Testimonial
	return unmarshalWithID(b, (*alias)(t), &t.ID)
}

// Displayable reports whether the testimonial has both a rating and feedback.
func (t Testimonial) Displayable() bool {
	return t.Rating > 0 && strings.TrimSpace(t.Feedback) != ""
}

// Stars splits a rating out of five into full, half and empty stars.
type Stars struct {
	Full  int
	Half  bool
	Empty int
}

func (t Testimonial) Stars() Stars {
	r := float64(t.Rating)
	if r < 0 {
		r = 0
	}
	if r > 5 {
		r = 5
	}
	full := int(r)
	half := r-float64(full) > 0
	empty := 5 - full
	if half {
		empty--
	}
	return Stars{Full: full, Half: half, Empty: empty}
}

// FilterDisplayable keeps testimonials that have both a rating and feedback.
func FilterDisplayable(items []Testimonial) []Testimonial {
	out := make([]Testimonial, 0, len(items))
	for _, t := range items {
		if t.Displayable() {
			out = append(out, t)
		}
	}
	return out
}

// FilterWithImages keeps projects that have a logo or gallery images.
func FilterWithImages(items []Project) []Project {
	out := make([]Project, 0, len(items))
	for _, p := range items {
		if p.HasImages() {
			out = append(out, p)
		}
	}
	return out
}

type Certification struct {
	Description  string   `json:"description"`
	Logos        []string `json:"logos"`
	Certificates []string `json:"certificates"`
}

// Domain is an OEM inquiry domain the visitor can pick from.
type Domain struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (d *Domain) UnmarshalJSON(b []byte) error {
	type alias Domain
	return unmarshalWithID(b, (*alias)(d), &d.ID)
}

// Number decodes JSON numbers and numeric strings alike.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil || raw == "" {
		*n = 0
		return nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// Timestamp decodes RFC 3339 strings, unix seconds and empty values.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil || raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := cast.ToTimeE(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time)
}

type mongoID struct {
	ID string `json:"_id"`
}

// unmarshalWithID decodes b into v and fills *id from "_id" when "id" is absent.
func unmarshalWithID(b []byte, v any, id *string) error {
	if err := json.Unmarshal(b, v); err != nil {
		return err
	}
	if *id != "" {
		return nil
	}
	var m mongoID
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*id = m.ID
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
