package web

import (
	"net/http"

	"github.com/dharti-automation/dharti-web/internal/carousel"
	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/dharti-automation/dharti-web/internal/fetch"
	"github.com/dharti-automation/dharti-web/internal/forms"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// maxSectionLoads bounds the concurrent upstream loads of one page.
const maxSectionLoads = 4

type homeData struct {
	Clients      Section[[]domain.Project]
	Services     Section[[]domain.Service]
	Products     Section[[]domain.Product]
	Testimonials Section[[]domain.Testimonial]
	Gallery      Section[[]domain.Project]
	Posts        Section[[]domain.BlogPost]
}

func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		clients      fetch.State[[]domain.Project]
		services     fetch.State[[]domain.Service]
		products     fetch.State[[]domain.Product]
		testimonials fetch.State[[]domain.Testimonial]
		posts        fetch.State[[]domain.BlogPost]
	)

	// Sections fail independently, so no load returns an error to the group.
	var g errgroup.Group
	g.SetLimit(maxSectionLoads)
	g.Go(func() error { clients = fetch.RunList(ctx, h.content.Clients); return nil })
	g.Go(func() error { services = fetch.RunList(ctx, h.content.Services); return nil })
	g.Go(func() error { products = fetch.RunList(ctx, h.content.Products); return nil })
	g.Go(func() error { testimonials = fetch.RunList(ctx, h.content.Testimonials); return nil })
	g.Go(func() error { posts = fetch.RunList(ctx, h.content.Posts); return nil })
	_ = g.Wait()

	if testimonials.Ready() {
		testimonials.Data = domain.FilterDisplayable(testimonials.Data)
	}
	gallery := clients
	if gallery.Ready() {
		gallery.Data = domain.FilterWithImages(clients.Data)
	}

	data := homeData{
		Clients:      listSection(clients, h.presets, carousel.Clients),
		Services:     listSection(services, h.presets, carousel.Services),
		Products:     listSection(products, h.presets, carousel.Products),
		Testimonials: listSection(testimonials, h.presets, carousel.Testimonials),
		Gallery:      listSection(gallery, h.presets, carousel.Gallery),
		Posts:        listSection(posts, h.presets, carousel.Blog),
	}
	h.render(c, http.StatusOK, "home.html", h.page(c, "Home", "home", data))
}

func (h *Handler) Services(c *gin.Context) {
	st := fetch.RunList(c.Request.Context(), h.content.Services)
	h.render(c, http.StatusOK, "services.html", h.page(c, "Services", "services", listSection(st, h.presets, carousel.Services)))
}

func (h *Handler) ServiceDetail(c *gin.Context) {
	st := fetch.RunDetail(c.Request.Context(), c.Param("id"), h.content.Service, func(s *domain.Service) string { return s.ID })
	if st.NotFound {
		h.NotFound(c)
		return
	}
	title := "Service"
	if st.Ready() {
		title = st.Data.Title
	}
	h.render(c, http.StatusOK, "service_detail.html", h.page(c, title, "services", st))
}

func (h *Handler) ClientDetail(c *gin.Context) {
	st := fetch.RunDetail(c.Request.Context(), c.Param("id"), h.content.Client, func(p *domain.Project) string { return p.ID })
	if st.NotFound {
		h.NotFound(c)
		return
	}
	title := "Client"
	if st.Ready() {
		title = st.Data.ClientName
	}
	h.render(c, http.StatusOK, "client_detail.html", h.page(c, title, "home", st))
}

func (h *Handler) Careers(c *gin.Context) {
	h.render(c, http.StatusOK, "careers.html", h.page(c, "Careers", "careers", nil))
}

func (h *Handler) Jobs(c *gin.Context) {
	data := h.jobsData(c.Request.Context(), applicationView(&forms.JobApplication{}, forms.Result{}))
	if id := c.Query("apply"); id != "" {
		for _, j := range data.Jobs.Data {
			if j.ID == id {
				data.OpenJob = j.ID
				data.Form.Values.JobID = j.ID
				data.Form.Values.JobTitle = j.Title
				break
			}
		}
	}
	h.render(c, http.StatusOK, "jobs.html", h.page(c, "Open Positions", "careers", data))
}

func (h *Handler) Certifications(c *gin.Context) {
	st := fetch.Run(c.Request.Context(), h.content.Certification)
	h.render(c, http.StatusOK, "certifications.html", h.page(c, "Certifications", "certifications", st))
}

func (h *Handler) Blog(c *gin.Context) {
	st := fetch.RunList(c.Request.Context(), h.content.Posts)
	h.render(c, http.StatusOK, "blog.html", h.page(c, "Blog", "blog", listSection(st, h.presets, carousel.Blog)))
}

func (h *Handler) Contact(c *gin.Context) {
	data := h.contactData(c.Request.Context(), inquiryView(&forms.Inquiry{}, forms.Result{}))
	h.render(c, http.StatusOK, "contact.html", h.page(c, "Contact Us", "contact", data))
}

func (h *Handler) OEM(c *gin.Context) {
	data := h.oemData(c.Request.Context(), oemView(&forms.OEMInquiry{}, forms.Result{}))
	h.render(c, http.StatusOK, "oem.html", h.page(c, "OEM & Prototyping", "oem", data))
}

// NotFound renders the not-found view with a 404.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "notfound.html", h.page(c, "Not Found", "", nil))
}
