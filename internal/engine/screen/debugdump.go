package screen

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/rs/zerolog"
)

// DebugDumper writes intermediate frames to a folder. Consecutive frames for
// the same label whose perceptual hashes are within MaxDistance are skipped.
type DebugDumper struct {
	Dir         string
	Enabled     bool
	MaxDistance int

	mu   sync.Mutex
	last map[string]*goimagehash.ImageHash
	seq  int
	log  zerolog.Logger
}

func NewDebugDumper(dir string, enabled bool, maxDistance int, log zerolog.Logger) *DebugDumper {
	return &DebugDumper{
		Dir:         dir,
		Enabled:     enabled,
		MaxDistance: maxDistance,
		last:        make(map[string]*goimagehash.ImageHash),
		log:         log,
	}
}

// Clear removes every file in the dump folder and forgets remembered hashes.
func (d *DebugDumper) Clear() error {
	if !d.Enabled {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = make(map[string]*goimagehash.ImageHash)
	d.seq = 0

	entries, err := os.ReadDir(d.Dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read debug dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(d.Dir, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Save writes img as <label>_<timestamp>_<seq>.png. Failures are logged.
func (d *DebugDumper) Save(label string, img image.Image) {
	if !d.Enabled || img == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.unchanged(label, img) {
		return
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		d.log.Warn().Err(err).Msg("[Debug] cannot create dump dir")
		return
	}
	d.seq++
	name := fmt.Sprintf("%s_%s_%03d.png", label, time.Now().Format("20060102_150405"), d.seq)
	f, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		d.log.Warn().Err(err).Str("file", name).Msg("[Debug] cannot create frame")
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		d.log.Warn().Err(err).Str("file", name).Msg("[Debug] cannot encode frame")
	}
}

func (d *DebugDumper) unchanged(label string, img image.Image) bool {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return false
	}
	prev := d.last[label]
	d.last[label] = hash
	if prev == nil {
		return false
	}
	dist, err := prev.Distance(hash)
	if err != nil {
		return false
	}
	return dist <= d.MaxDistance
}
