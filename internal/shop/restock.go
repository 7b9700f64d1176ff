package shop

import (
	"image"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/ConserveLee/seedbot/internal/engine/screen"
)

var clockPattern = regexp.MustCompile(`(\d+):(\d+)`)

const maxCountdownMinutes = 99

// RestockReader reads the shop's "time until restock" countdown.
type RestockReader struct {
	screen    ScreenIO
	rec       TextRecognizer
	region    image.Rectangle
	threshold uint8
	sink      FrameSink
	log       zerolog.Logger
}

func NewRestockReader(sio ScreenIO, rec TextRecognizer, region image.Rectangle, threshold uint8, sink FrameSink, log zerolog.Logger) *RestockReader {
	if sink == nil {
		sink = nopSink{}
	}
	return &RestockReader{
		screen:    sio,
		rec:       rec,
		region:    region,
		threshold: threshold,
		sink:      sink,
		log:       log,
	}
}

// Read captures, binarizes and parses the countdown.
func (r *RestockReader) Read() Reading[time.Duration] {
	img, err := r.screen.Capture(r.region)
	if err != nil {
		r.log.Error().Err(err).Msg("[Restock] capture failed")
		return Unrecognized[time.Duration]()
	}
	bin := screen.Binarize(img, r.threshold)
	r.sink.Save("restock", bin)

	text, err := r.rec.Recognize(bin, CharsetClock)
	if err != nil {
		r.log.Error().Err(err).Msg("[Restock] recognition failed")
		return Unrecognized[time.Duration]()
	}
	reading := ParseCountdown(text)
	if d, ok := reading.Get(); ok {
		r.log.Info().Str("raw", strings.TrimSpace(text)).Dur("remaining", d).Msg("[Restock] countdown read")
	} else {
		r.log.Warn().Str("raw", strings.TrimSpace(text)).Msg("[Restock] countdown not recognized")
	}
	return reading
}

// ParseCountdown understands "m:ss" anywhere in text. Without a colon the
// digits are split positionally: three digits are m+ss, four or more are
// mm+ss taken from the front. Readings past 99:59 or with more than 59
// seconds are unrecognized.
func ParseCountdown(text string) Reading[time.Duration] {
	if m := clockPattern.FindStringSubmatch(text); m != nil {
		minutes, err1 := strconv.Atoi(m[1])
		seconds, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return countdown(minutes, seconds)
		}
	}

	var digits []byte
	for _, r := range text {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			digits = append(digits, byte(r))
		}
	}
	switch {
	case len(digits) == 3:
		return countdown(int(digits[0]-'0'), atoi(digits[1:3]))
	case len(digits) >= 4:
		return countdown(atoi(digits[0:2]), atoi(digits[2:4]))
	default:
		return Unrecognized[time.Duration]()
	}
}

func countdown(minutes, seconds int) Reading[time.Duration] {
	if minutes < 0 || minutes > maxCountdownMinutes || seconds < 0 || seconds > 59 {
		return Unrecognized[time.Duration]()
	}
	return Known(time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second)
}

func atoi(b []byte) int {
	n := 0
	for _, c := range b {
		n = n*10 + int(c-'0')
	}
	return n
}
