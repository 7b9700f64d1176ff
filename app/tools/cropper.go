package tools

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CropperWidget displays a screenshot and lets the user drag out a region.
type CropperWidget struct {
	widget.BaseWidget

	// State
	originalImg image.Image
	startPos    fyne.Position
	currentPos  fyne.Position
	isDragging  bool

	// UI Elements
	raster    *canvas.Image
	selection *canvas.Rectangle

	// Callback, in image pixel coordinates
	OnSelected func(rect image.Rectangle)
}

func NewCropperWidget(img image.Image, onSelected func(image.Rectangle)) *CropperWidget {
	c := &CropperWidget{
		originalImg: img,
		OnSelected:  onSelected,
	}
	c.ExtendBaseWidget(c)

	c.raster = canvas.NewImageFromImage(img)
	c.raster.ScaleMode = canvas.ImageScalePixels // Templates must keep exact pixels
	c.raster.FillMode = canvas.ImageFillContain

	c.selection = canvas.NewRectangle(color.RGBA{R: 255, G: 0, B: 0, A: 60})
	c.selection.StrokeColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	c.selection.StrokeWidth = 2
	c.selection.Hide()

	return c
}

func (c *CropperWidget) CreateRenderer() fyne.WidgetRenderer {
	return &cropperRenderer{
		cropper: c,
		objects: []fyne.CanvasObject{c.raster, c.selection},
	}
}

// Mouse events
func (c *CropperWidget) Dragged(e *fyne.DragEvent) {
	if !c.isDragging {
		c.isDragging = true
		c.startPos = e.Position.Subtract(e.Dragged)
		c.selection.Show()
	}
	c.currentPos = e.Position
	c.Refresh()
}

func (c *CropperWidget) DragEnd() {
	c.isDragging = false
	c.Refresh()
	if c.OnSelected == nil {
		return
	}
	if r := mapSelection(c.Size(), c.originalImg.Bounds(), c.startPos, c.currentPos); !r.Empty() {
		c.OnSelected(r)
	}
}

func (c *CropperWidget) Tapped(e *fyne.PointEvent) {
	c.startPos = e.Position
	c.currentPos = e.Position
	c.selection.Hide()
	c.Refresh()
}

func (c *CropperWidget) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}

// fitContain returns where an image of imgSize is drawn inside view with
// ImageFillContain.
func fitContain(view fyne.Size, imgSize image.Point) (fyne.Position, fyne.Size) {
	if view.Width == 0 || view.Height == 0 || imgSize.X == 0 || imgSize.Y == 0 {
		return fyne.Position{}, fyne.Size{}
	}
	aspect := float32(imgSize.X) / float32(imgSize.Y)
	if view.Width/view.Height > aspect {
		// Wider than the image: fit height
		w := view.Height * aspect
		return fyne.NewPos((view.Width-w)/2, 0), fyne.NewSize(w, view.Height)
	}
	h := view.Width / aspect
	return fyne.NewPos(0, (view.Height-h)/2), fyne.NewSize(view.Width, h)
}

// mapSelection converts a drag between a and b in widget space to pixels of
// an image with bounds img. Parts outside the drawn image are dropped.
func mapSelection(view fyne.Size, img image.Rectangle, a, b fyne.Position) image.Rectangle {
	off, drawn := fitContain(view, img.Size())
	if drawn.Width == 0 || drawn.Height == 0 {
		return image.Rectangle{}
	}

	x0 := max(min(a.X, b.X), off.X) - off.X
	y0 := max(min(a.Y, b.Y), off.Y) - off.Y
	x1 := min(max(a.X, b.X), off.X+drawn.Width) - off.X
	y1 := min(max(a.Y, b.Y), off.Y+drawn.Height) - off.Y
	if x1 <= x0 || y1 <= y0 {
		return image.Rectangle{}
	}

	sx := float32(img.Dx()) / drawn.Width
	sy := float32(img.Dy()) / drawn.Height
	r := image.Rect(int(x0*sx), int(y0*sy), int(x1*sx), int(y1*sy)).Add(img.Min)
	// Float rounding can overshoot by a pixel
	return r.Intersect(img)
}

// --- Renderer ---

type cropperRenderer struct {
	cropper *CropperWidget
	objects []fyne.CanvasObject
}

func (r *cropperRenderer) Layout(s fyne.Size) {
	r.objects[0].Resize(s)
	r.objects[0].Move(fyne.NewPos(0, 0))
	r.placeSelection()
}

func (r *cropperRenderer) placeSelection() {
	c := r.cropper
	minX := min(c.startPos.X, c.currentPos.X)
	minY := min(c.startPos.Y, c.currentPos.Y)
	maxX := max(c.startPos.X, c.currentPos.X)
	maxY := max(c.startPos.Y, c.currentPos.Y)

	r.objects[1].Move(fyne.NewPos(minX, minY))
	r.objects[1].Resize(fyne.NewSize(maxX-minX, maxY-minY))
}

func (r *cropperRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *cropperRenderer) Refresh() {
	r.placeSelection()
	canvas.Refresh(r.cropper)
}

func (r *cropperRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *cropperRenderer) Destroy() {}
