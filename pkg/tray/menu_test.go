package tray

import (
	"bytes"
	"image/png"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/core-tools/hsu-tray/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu      sync.Mutex
	tooltip string
	icon    []byte
	labels  []string
	clicks  map[string]chan struct{}
	quits   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{clicks: map[string]chan struct{}{}}
}

func (b *fakeBackend) SetTooltip(tooltip string) { b.tooltip = tooltip }
func (b *fakeBackend) SetIcon(icon []byte)       { b.icon = icon }

func (b *fakeBackend) AddItem(label, tooltip string) <-chan struct{} {
	ch := make(chan struct{})
	b.labels = append(b.labels, label)
	b.clicks[label] = ch
	return ch
}

func (b *fakeBackend) Quit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quits++
}

func (b *fakeBackend) click(label string) {
	b.clicks[label] <- struct{}{}
}

func receive(t *testing.T, events <-chan MenuEvent) MenuEvent {
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for menu event")
		return MenuEvent{}
	}
}

func TestBuildMenu_ItemsInFixedOrder(t *testing.T) {
	backend := newFakeBackend()
	icon := []byte{1, 2, 3}

	BuildMenu(backend, MenuOptions{Tooltip: "sleep 100", Icon: icon}, logging.NewNopLogger())

	assert.Equal(t, []string{"Kill", "Show Logs"}, backend.labels)
	assert.Equal(t, "sleep 100", backend.tooltip)
	assert.Equal(t, icon, backend.icon)
}

func TestBuildMenu_NoIconKeepsPlatformDefault(t *testing.T) {
	backend := newFakeBackend()
	BuildMenu(backend, MenuOptions{Tooltip: "x"}, logging.NewNopLogger())
	assert.Nil(t, backend.icon)
}

func TestMenu_ForwardsClicksAsDecodableEvents(t *testing.T) {
	backend := newFakeBackend()
	menu := BuildMenu(backend, MenuOptions{}, logging.NewNopLogger())

	backend.click("Show Logs")
	ev := receive(t, menu.Events())
	msg, err := Decode(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ShowLogs, msg)

	backend.click("Kill")
	ev = receive(t, menu.Events())
	msg, err = Decode(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, Kill, msg)
}

func TestMenu_DropsClicksWhenQueueFull(t *testing.T) {
	backend := newFakeBackend()
	menu := BuildMenu(backend, MenuOptions{EventBuffer: 1}, logging.NewNopLogger())

	backend.click("Show Logs")
	backend.click("Show Logs")
	backend.click("Kill")

	// unbuffered click channels mean the forwarder has consumed every click by now
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, menu.Events(), 1)
}

func TestMenu_IconCellQuitsBackendOnce(t *testing.T) {
	backend := newFakeBackend()
	menu := BuildMenu(backend, MenuOptions{}, logging.NewNopLogger())

	cell := menu.IconCell()
	cell.Release()
	cell.Release()

	assert.Equal(t, 1, backend.quits)
}

func TestDefaultIcon(t *testing.T) {
	icon := DefaultIcon()
	if runtime.GOOS == "windows" {
		assert.Nil(t, icon)
		return
	}

	img, err := png.Decode(bytes.NewReader(icon))
	require.NoError(t, err)
	assert.Equal(t, 22, img.Bounds().Dx())
}
