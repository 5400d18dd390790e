package service

import "time"

const (
	// DefaultTimeout applies to content reads when API_TIMEOUT is not set
	DefaultTimeout = 15 * time.Second

	// UploadTimeout is for multipart form posts carrying a CV or report
	UploadTimeout = 60 * time.Second

	// MaxResponseBytes caps how much of an upstream body is read
	MaxResponseBytes = 4 << 20
)

// Resource names double as cache keys and as /content/:resource route values.
const (
	ResourceSettings       = "settings"
	ResourceClients        = "clients"
	ResourceServices       = "services"
	ResourceProducts       = "products"
	ResourceJobs           = "jobs"
	ResourcePosts          = "posts"
	ResourceTestimonials   = "testimonials"
	ResourceCertifications = "certifications"
	ResourceDomains        = "domains"
)

// ListResources is every list resource the warmer pre-fetches.
var ListResources = []string{
	ResourceClients,
	ResourceServices,
	ResourceProducts,
	ResourceJobs,
	ResourcePosts,
	ResourceTestimonials,
	ResourceCertifications,
	ResourceDomains,
}
