package carousel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffective_LoopGuard(t *testing.T) {
	cfg := Config{
		SlidesPerView: 1,
		Breakpoints:   []Breakpoint{{MinWidth: 640, SlidesPerView: 2}, {MinWidth: 1024, SlidesPerView: 3}},
		Loop:          true,
		Autoplay:      Autoplay{Enabled: true, Delay: 2000},
	}

	view := cfg.Effective(2)
	assert.False(t, view.Loop, "2 items with a 3-slide breakpoint must not loop")
	assert.Equal(t, []int{0, 1}, view.Slides(), "each item renders exactly once")
	assert.Equal(t, 2, view.Breakpoints[1].SlidesPerView, "no empty slide at the widest breakpoint")
	assert.True(t, view.Autoplay.Enabled)

	assert.True(t, cfg.Effective(3).Loop)
	assert.Equal(t, 3, cfg.Breakpoints[1].SlidesPerView, "Effective does not mutate the preset")
}

func TestEffective_SingleItem(t *testing.T) {
	cfg := Config{SlidesPerView: 1, Loop: true, MinLoopSlides: 2, Autoplay: Autoplay{Enabled: true, Delay: 4000}, Navigation: true, Pagination: true}

	one := cfg.Effective(1)
	assert.False(t, one.Loop)
	assert.False(t, one.Autoplay.Enabled)
	assert.False(t, one.Navigation)

	two := cfg.Effective(2)
	assert.True(t, two.Loop, "explicit threshold of 2 loops with two items")

	empty := cfg.Effective(0)
	assert.Equal(t, 1, empty.SlidesPerView)
	assert.Empty(t, empty.Slides())
}

func TestSlidesAt(t *testing.T) {
	presets, err := DefaultPresets()
	require.NoError(t, err)

	clients := presets.Get(Clients)
	assert.Equal(t, 1, clients.SlidesAt(320))
	assert.Equal(t, 2, clients.SlidesAt(640))
	assert.Equal(t, 4, clients.SlidesAt(1100))
	assert.Equal(t, 5, clients.SlidesAt(1920))
	assert.Equal(t, 5, clients.LoopThreshold())
}

func TestDefaultPresets(t *testing.T) {
	presets, err := DefaultPresets()
	require.NoError(t, err)

	for _, name := range []string{Clients, Services, Products, Testimonials, Blog, Gallery} {
		_, ok := presets[name]
		assert.True(t, ok, name)
	}
	blog := presets.Get(Blog)
	assert.Equal(t, 2000, blog.Autoplay.Delay)
	assert.True(t, blog.Autoplay.PauseOnHover)
	assert.Equal(t, 1, presets.Get("unknown").SlidesPerView)
}

func TestAttrs(t *testing.T) {
	presets, err := DefaultPresets()
	require.NoError(t, err)

	attrs := string(presets.For(Blog, 5).Attrs())
	assert.Contains(t, attrs, `data-carousel-loop="true"`)
	assert.Contains(t, attrs, `data-carousel-breakpoints="640:2,1024:3"`)
	assert.Contains(t, attrs, `data-carousel-autoplay="2000"`)
	assert.Contains(t, attrs, `data-carousel-pause-on-hover="true"`)
	assert.Contains(t, attrs, `data-carousel-keyboard="true"`)

	attrs = string(presets.For(Blog, 2).Attrs())
	assert.Contains(t, attrs, `data-carousel-loop="false"`)
	assert.Contains(t, attrs, `data-carousel-breakpoints="640:2,1024:2"`)
}

func TestLoadPresets_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carousel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
blog:
  slidesPerView: 2
  breakpoints:
    - { minWidth: 1024, slidesPerView: 4 }
    - { minWidth: 640, slidesPerView: 3 }
  autoplay: { enabled: true }
`), 0o600))

	presets, err := LoadPresets(path)
	require.NoError(t, err)

	blog := presets.Get(Blog)
	assert.Equal(t, 2, blog.SlidesPerView)
	assert.Equal(t, 640, blog.Breakpoints[0].MinWidth, "breakpoints are sorted")
	assert.Equal(t, defaultAutoplayDelay, blog.Autoplay.Delay)
	assert.Equal(t, 28, presets.Get(Clients).SpaceBetween, "other presets keep defaults")
}

func TestLoadPresets_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blog:\n  slidesPerVeiw: 2\n"), 0o600))

	_, err := LoadPresets(path)
	assert.Error(t, err)
}
