package tools

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ConserveLee/seedbot/internal/config"
	"github.com/ConserveLee/seedbot/internal/engine/screen"
	"github.com/ConserveLee/seedbot/internal/logger"
	"github.com/ConserveLee/seedbot/internal/shop"
)

const (
	targetShopRegion    = "Shop region"
	targetRestockRegion = "Restock timer region"
	templatePrefix      = "Template: "
)

// NewToolsPanel creates the capture-and-crop tab used to build rarity
// templates and calibrate capture regions. cfgPath is where region changes
// are saved.
func NewToolsPanel(win fyne.Window, cfg *config.Config, cfgPath string, log *logger.AppLogger) fyne.CanvasObject {
	searcher := screen.NewSearcher()
	searcher.SetDisplayID(cfg.DisplayID)

	// 1. Screen Selector
	displayOptions := screen.Displays()
	displaySelect := widget.NewSelect(displayOptions, func(selected string) {
		searcher.SetDisplayID(screen.ParseDisplay(selected))
	})
	if cfg.DisplayID >= 0 && cfg.DisplayID < len(displayOptions) {
		displaySelect.SetSelected(displayOptions[cfg.DisplayID])
	} else {
		displaySelect.SetSelected(displayOptions[0])
	}

	// 2. Info Label
	infoLabel := widget.NewLabel("1. Select the game screen\n2. Capture & Crop\n3. Drag around a rarity icon or a region\n4. Save it as a template or region")
	infoLabel.Alignment = fyne.TextAlignCenter

	// 3. Action Buttons
	cropBtn := widget.NewButton("Capture & Crop", func() {
		img, err := searcher.CaptureScreen()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		showCropperWindow(img, cfg, cfgPath, log)
	})
	cropBtn.Importance = widget.HighImportance

	openDirBtn := widget.NewButton("Open Templates", func() {
		if err := os.MkdirAll(cfg.TemplateDir, 0755); err != nil {
			dialog.ShowError(err, win)
			return
		}
		openDir(cfg.TemplateDir)
	})

	return container.NewVBox(
		widget.NewLabel("Screen:"),
		displaySelect,
		widget.NewSeparator(),
		infoLabel,
		layoutSpacer(),
		cropBtn,
		layoutSpacer(),
		widget.NewSeparator(),
		openDirBtn,
	)
}

func layoutSpacer() fyne.CanvasObject {
	return widget.NewLabel("")
}

func openDir(path string) {
	var cmd *exec.Cmd
	absPath, _ := filepath.Abs(path)

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("explorer", absPath)
	default:
		cmd = exec.Command("xdg-open", absPath)
	}
	_ = cmd.Start()
}

func showCropperWindow(fullImg image.Image, cfg *config.Config, cfgPath string, log *logger.AppLogger) {
	w := fyne.CurrentApp().NewWindow("Crop")
	w.Resize(fyne.NewSize(800, 600))

	lbl := widget.NewLabel("Drag over the screenshot to select...")
	lbl.Alignment = fyne.TextAlignCenter

	saveBtn := widget.NewButton("Save Selection", nil)
	saveBtn.Disable()

	var currentSelection image.Rectangle

	cropper := NewCropperWidget(fullImg, func(rect image.Rectangle) {
		currentSelection = rect
		lbl.SetText(fmt.Sprintf("Selected x=%d y=%d w=%d h=%d", rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy()))
		saveBtn.Enable()
	})

	saveBtn.OnTapped = func() {
		crop, ok := screen.Crop(fullImg, currentSelection)
		if !ok {
			return
		}
		showSaveForm(w, crop, currentSelection, cfg, cfgPath, log)
	}

	w.SetContent(container.NewBorder(
		nil,
		container.NewVBox(lbl, saveBtn),
		nil, nil,
		cropper,
	))
	w.Show()
}

// saveTargets lists one template entry per configured rarity, then the
// calibratable regions.
func saveTargets(rarities []string) []string {
	out := make([]string, 0, len(rarities)+2)
	for _, r := range rarities {
		out = append(out, templatePrefix+r)
	}
	return append(out, targetShopRegion, targetRestockRegion)
}

func showSaveForm(win fyne.Window, img image.Image, rect image.Rectangle, cfg *config.Config, cfgPath string, log *logger.AppLogger) {
	preview := canvas.NewImageFromImage(img)
	preview.FillMode = canvas.ImageFillContain
	preview.SetMinSize(fyne.NewSize(100, 100))

	targets := saveTargets(cfg.Rarities)
	targetSelect := widget.NewSelect(targets, nil)
	targetSelect.SetSelected(targets[0])

	content := container.NewVBox(
		widget.NewLabel("Save this selection?"),
		container.NewCenter(preview),
		widget.NewLabel("Use as:"),
		targetSelect,
	)

	dialog.ShowCustomConfirm("Save", "Save", "Cancel", content, func(confirm bool) {
		if !confirm {
			return
		}
		msg, err := applySelection(targetSelect.Selected, img, rect, cfg, cfgPath)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		log.Info("[Tools] %s", msg)
		dialog.ShowInformation("Saved", msg, win)
		win.Close()
	}, win)
}

// applySelection writes a rarity template or stores a calibrated region in
// the config file, depending on target.
func applySelection(target string, img image.Image, rect image.Rectangle, cfg *config.Config, cfgPath string) (string, error) {
	region := config.Region{X: rect.Min.X, Y: rect.Min.Y, W: rect.Dx(), H: rect.Dy()}
	switch target {
	case targetShopRegion:
		cfg.Geometry.ShopRegion = region
	case targetRestockRegion:
		cfg.Geometry.RestockRegion = region
	default:
		rarity, ok := strings.CutPrefix(target, templatePrefix)
		if !ok || rarity == "" {
			return "", fmt.Errorf("unknown save target %q", target)
		}
		path := shop.TemplatePath(cfg.TemplateDir, rarity)
		if err := savePNG(path, img); err != nil {
			return "", err
		}
		return "template saved to " + path, nil
	}

	if err := cfg.Save(cfgPath); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s set to %d,%d %dx%d (restart the scan to apply)", target, region.X, region.Y, region.W, region.H), nil
}

func savePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
