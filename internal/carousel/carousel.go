// Package carousel computes the behaviour of a horizontally scrolling list:
// responsive slides per view, looping, autoplay and controls. The browser
// script reads the result from data attributes.
package carousel

import (
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
)

type Breakpoint struct {
	MinWidth      int `yaml:"minWidth" json:"minWidth"`
	SlidesPerView int `yaml:"slidesPerView" json:"slidesPerView"`
}

type Autoplay struct {
	Enabled              bool `yaml:"enabled" json:"enabled"`
	Delay                int  `yaml:"delay" json:"delay"` // milliseconds
	PauseOnHover         bool `yaml:"pauseOnHover" json:"pauseOnHover"`
	DisableOnInteraction bool `yaml:"disableOnInteraction" json:"disableOnInteraction"`
}

type Config struct {
	SlidesPerView int          `yaml:"slidesPerView" json:"slidesPerView"`
	Breakpoints   []Breakpoint `yaml:"breakpoints" json:"breakpoints"`
	SpaceBetween  int          `yaml:"spaceBetween" json:"spaceBetween"`
	Loop          bool         `yaml:"loop" json:"loop"`
	// MinLoopSlides is the fewest items that may loop. Zero means the largest
	// slides-per-view across breakpoints.
	MinLoopSlides int      `yaml:"minLoopSlides" json:"minLoopSlides"`
	Autoplay      Autoplay `yaml:"autoplay" json:"autoplay"`
	Pagination    bool     `yaml:"pagination" json:"pagination"`
	Navigation    bool     `yaml:"navigation" json:"navigation"`
	Keyboard      bool     `yaml:"keyboard" json:"keyboard"`
	Mousewheel    bool     `yaml:"mousewheel" json:"mousewheel"`
}

const defaultAutoplayDelay = 3000

// Validate checks slide counts and sorts breakpoints by width.
func (c *Config) Validate() error {
	if c.SlidesPerView <= 0 {
		c.SlidesPerView = 1
	}
	for _, bp := range c.Breakpoints {
		if bp.MinWidth < 0 || bp.SlidesPerView <= 0 {
			return fmt.Errorf("invalid breakpoint %d:%d", bp.MinWidth, bp.SlidesPerView)
		}
	}
	sort.Slice(c.Breakpoints, func(i, j int) bool { return c.Breakpoints[i].MinWidth < c.Breakpoints[j].MinWidth })
	if c.MinLoopSlides < 0 {
		return fmt.Errorf("minLoopSlides must not be negative")
	}
	if c.Autoplay.Enabled && c.Autoplay.Delay <= 0 {
		c.Autoplay.Delay = defaultAutoplayDelay
	}
	return nil
}

// MaxSlidesPerView is the widest layout's slide count.
func (c Config) MaxSlidesPerView() int {
	m := c.SlidesPerView
	for _, bp := range c.Breakpoints {
		if bp.SlidesPerView > m {
			m = bp.SlidesPerView
		}
	}
	if m < 1 {
		m = 1
	}
	return m
}

// LoopThreshold is the item count below which looping is turned off.
func (c Config) LoopThreshold() int {
	t := c.MinLoopSlides
	if t == 0 {
		t = c.MaxSlidesPerView()
	}
	if t < 2 {
		t = 2
	}
	return t
}

// SlidesAt returns the slides per view for a viewport width.
func (c Config) SlidesAt(width int) int {
	n := c.SlidesPerView
	for _, bp := range c.Breakpoints {
		if width >= bp.MinWidth {
			n = bp.SlidesPerView
		}
	}
	return n
}

// View is a configuration fitted to a concrete item count.
type View struct {
	Config
	Count int
}

// Effective adapts c to count items: looping is dropped below the loop
// threshold, autoplay needs at least two items, and no layout shows more
// slides than there are items.
func (c Config) Effective(count int) View {
	eff := c
	eff.Breakpoints = make([]Breakpoint, len(c.Breakpoints))
	copy(eff.Breakpoints, c.Breakpoints)

	if count < c.LoopThreshold() {
		eff.Loop = false
	}
	if count <= 1 {
		eff.Autoplay.Enabled = false
		eff.Navigation = false
		eff.Pagination = false
	}

	limit := count
	if limit < 1 {
		limit = 1
	}
	eff.SlidesPerView = clamp(eff.SlidesPerView, limit)
	for i := range eff.Breakpoints {
		eff.Breakpoints[i].SlidesPerView = clamp(eff.Breakpoints[i].SlidesPerView, limit)
	}
	return View{Config: eff, Count: count}
}

// Slides returns the indices of items in render order. Each item appears once.
func (v View) Slides() []int {
	out := make([]int, v.Count)
	for i := range out {
		out[i] = i
	}
	return out
}

// Attrs renders the data-carousel-* attributes for the browser script.
func (v View) Attrs() template.HTMLAttr {
	parts := []string{
		attr("slides", strconv.Itoa(v.SlidesPerView)),
		attr("gap", strconv.Itoa(v.SpaceBetween)),
		attr("count", strconv.Itoa(v.Count)),
		attr("loop", strconv.FormatBool(v.Loop)),
	}
	if len(v.Breakpoints) > 0 {
		bps := make([]string, 0, len(v.Breakpoints))
		for _, bp := range v.Breakpoints {
			bps = append(bps, fmt.Sprintf("%d:%d", bp.MinWidth, bp.SlidesPerView))
		}
		parts = append(parts, attr("breakpoints", strings.Join(bps, ",")))
	}
	if v.Autoplay.Enabled {
		parts = append(parts, attr("autoplay", strconv.Itoa(v.Autoplay.Delay)))
		if v.Autoplay.PauseOnHover {
			parts = append(parts, attr("pause-on-hover", "true"))
		}
		if v.Autoplay.DisableOnInteraction {
			parts = append(parts, attr("stop-on-interaction", "true"))
		}
	}
	if v.Pagination {
		parts = append(parts, attr("pagination", "true"))
	}
	if v.Navigation {
		parts = append(parts, attr("navigation", "true"))
	}
	if v.Keyboard {
		parts = append(parts, attr("keyboard", "true"))
	}
	if v.Mousewheel {
		parts = append(parts, attr("wheel", "true"))
	}
	return template.HTMLAttr(strings.Join(parts, " "))
}

func attr(name, value string) string {
	return fmt.Sprintf(`data-carousel-%s="%s"`, name, template.HTMLEscapeString(value))
}

func clamp(n, limit int) int {
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}
