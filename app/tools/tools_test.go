package tools

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConserveLee/seedbot/internal/config"
	"github.com/ConserveLee/seedbot/internal/engine/screen"
)

func TestMapSelectionFitHeight(t *testing.T) {
	// 200x100 image in a 400x100 view is drawn at x=100..300, scale 1
	img := image.Rect(0, 0, 200, 100)
	got := mapSelection(fyne.NewSize(400, 100), img, fyne.NewPos(110, 20), fyne.NewPos(150, 60))
	assert.Equal(t, image.Rect(10, 20, 50, 60), got)
}

func TestMapSelectionScalesAndClips(t *testing.T) {
	// 400x400 image in a 200x300 view: fit width, scale 2, drawn at y=50..250
	img := image.Rect(0, 0, 400, 400)
	got := mapSelection(fyne.NewSize(200, 300), img, fyne.NewPos(150, 240), fyne.NewPos(10, 0))
	assert.Equal(t, image.Rect(20, 0, 300, 380), got)
}

func TestMapSelectionOutsideImage(t *testing.T) {
	img := image.Rect(0, 0, 200, 100)
	got := mapSelection(fyne.NewSize(400, 100), img, fyne.NewPos(0, 0), fyne.NewPos(90, 90))
	assert.True(t, got.Empty())
	assert.True(t, mapSelection(fyne.Size{}, img, fyne.NewPos(0, 0), fyne.NewPos(5, 5)).Empty())
}

func TestSaveTargets(t *testing.T) {
	assert.Equal(t, []string{"Template: Divine", "Template: Rare", targetShopRegion, targetRestockRegion},
		saveTargets([]string{"Divine", "Rare"}))
}

func TestApplySelectionTemplate(t *testing.T) {
	cfg := config.Default()
	cfg.TemplateDir = filepath.Join(t.TempDir(), "templates")
	img := image.NewRGBA(image.Rect(0, 0, 12, 8))

	_, err := applySelection("Template: Mythical", img, img.Bounds(), cfg, filepath.Join(t.TempDir(), "unused.json"))
	require.NoError(t, err)

	loaded, err := screen.LoadImage(filepath.Join(cfg.TemplateDir, "mythical.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(12, 8), loaded.Bounds().Size())
}

func TestApplySelectionRegionSavesConfig(t *testing.T) {
	cfg := config.Default()
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := applySelection(targetRestockRegion, nil, image.Rect(850, 240, 950, 280), cfg, path)
	require.NoError(t, err)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Region{X: 850, Y: 240, W: 100, H: 40}, loaded.Geometry.RestockRegion)
}

func TestApplySelectionUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.TemplateDir = dir

	_, err := applySelection("Template: ", nil, image.Rect(0, 0, 1, 1), cfg, filepath.Join(dir, "c.json"))
	assert.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
