package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"runtime"

	"github.com/getlantern/systray"
)

type systrayBackend struct{}

// SystrayBackend drives the real system tray. It may only be used between
// Run's onReady and onExit callbacks.
func SystrayBackend() Backend {
	return systrayBackend{}
}

func (systrayBackend) SetTooltip(tooltip string) {
	systray.SetTooltip(tooltip)
}

func (systrayBackend) SetIcon(icon []byte) {
	systray.SetIcon(icon)
}

func (systrayBackend) AddItem(label, tooltip string) <-chan struct{} {
	item := systray.AddMenuItem(label, tooltip)
	return item.ClickedCh
}

func (systrayBackend) Quit() {
	systray.Quit()
}

// Run blocks on the platform event loop. It must be called from the main goroutine.
func Run(onReady, onExit func()) {
	systray.Run(onReady, onExit)
}

// DefaultIcon renders a plain filled circle as PNG. Windows wants ICO data,
// so there the platform default is kept.
func DefaultIcon() []byte {
	if runtime.GOOS == "windows" {
		return nil
	}

	const size = 22
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fill := color.NRGBA{R: 0x2e, G: 0x8b, B: 0x57, A: 0xff}
	center, radius := size/2, size/2-2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-center, y-center
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, fill)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
