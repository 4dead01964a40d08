package hal

import "testing"

func TestHostFramebufferResize(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	if fb.StrideBytes() != 16 || len(fb.Buffer()) != 32 {
		t.Fatalf("stride=%d len=%d, want 16/32", fb.StrideBytes(), len(fb.Buffer()))
	}

	fb.ClearRGB(1, 2, 3)
	if b := fb.Buffer(); b[4] != 1 || b[5] != 2 || b[6] != 3 || b[7] != 0xFF {
		t.Fatalf("pixel 1 = %v, want [1 2 3 255]", b[4:8])
	}

	fb.Resize(8, 3)
	if fb.Width() != 8 || fb.Height() != 3 || len(fb.Buffer()) != 8*3*4 {
		t.Fatalf("after Resize: %dx%d len=%d", fb.Width(), fb.Height(), len(fb.Buffer()))
	}
	for i, v := range fb.Buffer() {
		if v != 0 {
			t.Fatalf("Buffer()[%d] = %d after Resize, want cleared", i, v)
		}
	}

	fb.Resize(0, -1)
	if fb.Width() != 1 || fb.Height() != 1 {
		t.Fatalf("Resize(0,-1) = %dx%d, want 1x1", fb.Width(), fb.Height())
	}
}

func TestHostDisplayOnResize(t *testing.T) {
	h := New(HostConfig{Width: 10, Height: 10, Headless: true}).(*hostHAL)

	var got []ResizeEvent
	h.Display().OnResize(func(ev ResizeEvent) { got = append(got, ev) })
	h.Display().OnResize(nil)
	h.emitResize(ResizeEvent{Width: 20, Height: 10, DeviceScale: 2})

	if len(got) != 1 || got[0].Width != 20 || got[0].DeviceScale != 2 {
		t.Fatalf("resize events = %+v", got)
	}
}
