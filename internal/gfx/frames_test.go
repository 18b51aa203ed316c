package gfx

import (
	"testing"

	"github.com/pkg/errors"
)

func newTestFrames(t *testing.T, gpu *fakeGPU, n int) (*FrameSynchronizer, *Chain) {
	t.Helper()
	f, err := NewFrameSynchronizer(gpu, n, NoTimeout, ClearColor{})
	if err != nil {
		t.Fatal(err)
	}
	c, err := buildChain(gpu, 800, 600, ShaderSource{})
	if err != nil {
		t.Fatal(err)
	}
	return f, c
}

func TestFramesInFlightBounded(t *testing.T) {
	for n := 1; n <= 3; n++ {
		for latency := 0; latency <= n+2; latency++ {
			gpu := newFakeGPU(t)
			gpu.latency = latency
			f, c := newTestFrames(t, gpu, n)
			for i := 0; i < 20; i++ {
				if _, err := f.DrawFrame(c, false); err != nil {
					t.Fatal(err)
				}
			}
			if gpu.maxOutstanding > n {
				t.Errorf("n=%d latency=%d: %d submissions in flight", n, latency, gpu.maxOutstanding)
			}
			if gpu.submits != 20 {
				t.Errorf("n=%d latency=%d: %d submits", n, latency, gpu.submits)
			}
		}
	}
}

func TestFramesCycleSlots(t *testing.T) {
	gpu := newFakeGPU(t)
	f, c := newTestFrames(t, gpu, 2)
	for i := 0; i < 5; i++ {
		res, err := f.DrawFrame(c, false)
		if err != nil {
			t.Fatal(err)
		}
		if res.Slot != i%2 {
			t.Errorf("frame %d used slot %d", i, res.Slot)
		}
		if res.Image != uint32(i%3) {
			t.Errorf("frame %d presented image %d", i, res.Image)
		}
		if !res.Presented || res.Recreate {
			t.Errorf("frame %d: %+v", i, res)
		}
		if f.State(res.Slot) != SlotSubmitted {
			t.Errorf("frame %d: slot state %v", i, f.State(res.Slot))
		}
	}
	// Without latency the GPU never finishes on its own, so the third frame
	// had to wait for the first.
	if gpu.maxOutstanding != 2 {
		t.Errorf("max in flight = %d, want 2", gpu.maxOutstanding)
	}
}

func TestOutOfDateAcquireAbortsFrame(t *testing.T) {
	gpu := newFakeGPU(t)
	gpu.acquireStatus[5] = StatusOutOfDate
	f, c := newTestFrames(t, gpu, 2)

	for i := 0; i < 4; i++ {
		if _, err := f.DrawFrame(c, false); err != nil {
			t.Fatal(err)
		}
	}
	res, err := f.DrawFrame(c, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Presented || !res.Recreate {
		t.Errorf("out of date frame: %+v", res)
	}
	if gpu.submits != 4 || gpu.presents != 4 {
		t.Errorf("submits = %d, presents = %d, want 4", gpu.submits, gpu.presents)
	}
	if f.Current() != res.Slot {
		t.Errorf("slot advanced to %d after aborted frame", f.Current())
	}
	if !f.slots[res.Slot].(*fakeSlot).signaled {
		t.Error("fence reset on an aborted frame")
	}

	next, err := f.DrawFrame(c, false)
	if err != nil {
		t.Fatal(err)
	}
	if !next.Presented || next.Recreate || next.Slot != res.Slot {
		t.Errorf("frame after out of date: %+v", next)
	}
}

func TestSuboptimalRequestsRecreateAfterPresent(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*fakeGPU)
		resized bool
	}{
		{"suboptimal acquire", func(g *fakeGPU) { g.acquireStatus[1] = StatusSuboptimal }, false},
		{"suboptimal present", func(g *fakeGPU) { g.presentStatus[1] = StatusSuboptimal }, false},
		{"out of date present", func(g *fakeGPU) { g.presentStatus[1] = StatusOutOfDate }, false},
		{"resize", func(*fakeGPU) {}, true},
	}
	for _, tc := range tests {
		gpu := newFakeGPU(t)
		tc.setup(gpu)
		f, c := newTestFrames(t, gpu, 2)

		res, err := f.DrawFrame(c, tc.resized)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !res.Presented || !res.Recreate {
			t.Errorf("%s: %+v", tc.name, res)
		}
		if f.Current() != 1 {
			t.Errorf("%s: slot did not advance", tc.name)
		}
	}
}

func TestSubmitErrorPropagates(t *testing.T) {
	gpu := newFakeGPU(t)
	lost := errors.New("device lost")
	f, c := newTestFrames(t, gpu, 2)
	gpu.failSubmit = lost

	if _, err := f.DrawFrame(c, false); errors.Cause(err) != lost {
		t.Fatalf("err = %v, want device lost", err)
	}
	if gpu.presents != 0 {
		t.Error("presented after a failed submit")
	}
}

func TestNewFrameSynchronizer(t *testing.T) {
	gpu := newFakeGPU(t)
	if _, err := NewFrameSynchronizer(gpu, 0, NoTimeout, ClearColor{}); err == nil {
		t.Error("expected error for zero frames in flight")
	}

	gpu.failCreate["slot"] = errors.New("out of memory")
	if _, err := NewFrameSynchronizer(gpu, 2, NoTimeout, ClearColor{}); err == nil {
		t.Error("expected slot creation error")
	}

	delete(gpu.failCreate, "slot")
	f, err := NewFrameSynchronizer(gpu, 3, NoTimeout, ClearColor{})
	if err != nil {
		t.Fatal(err)
	}
	if f.FramesInFlight() != 3 {
		t.Errorf("frames in flight = %d", f.FramesInFlight())
	}
	gpu.events = nil
	f.Destroy()
	expectEvents(t, gpu.events, []string{"destroy slot 2", "destroy slot 1", "destroy slot 0"})
}
