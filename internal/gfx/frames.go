package gfx

import (
	"github.com/pkg/errors"
)

// SlotState tracks where a frame slot is in its cycle.
type SlotState int

const (
	SlotIdle SlotState = iota
	SlotRecording
	SlotSubmitted
)

func (s SlotState) String() string {
	switch s {
	case SlotIdle:
		return "idle"
	case SlotRecording:
		return "recording"
	case SlotSubmitted:
		return "submitted"
	}
	return "unknown"
}

// FrameResult describes one pass through DrawFrame.
type FrameResult struct {
	Slot      int
	Image     uint32
	Presented bool
	// Recreate is set when the presentation chain must be rebuilt before the
	// next frame.
	Recreate bool
}

// FrameSynchronizer cycles a fixed set of frame slots so at most len(slots)
// frames are in flight. A slot is only re-recorded after its fence signaled.
type FrameSynchronizer struct {
	slots   []FrameSlot
	states  []SlotState
	current int
	timeout uint64
	clear   ClearColor
}

// NewFrameSynchronizer creates count frame slots. acquireTimeout bounds the
// wait for a swapchain image.
func NewFrameSynchronizer(b Backend, count int, acquireTimeout uint64, clear ClearColor) (*FrameSynchronizer, error) {
	if count < 1 {
		return nil, errors.Errorf("frames in flight must be at least 1, got %d", count)
	}
	f := &FrameSynchronizer{
		states:  make([]SlotState, count),
		timeout: acquireTimeout,
		clear:   clear,
	}
	for i := 0; i < count; i++ {
		slot, err := b.CreateFrameSlot(i)
		if err != nil {
			f.Destroy()
			return nil, errors.Wrapf(err, "create frame slot %d", i)
		}
		f.slots = append(f.slots, slot)
	}
	return f, nil
}

// FramesInFlight is the number of slots.
func (f *FrameSynchronizer) FramesInFlight() int {
	return len(f.slots)
}

// Current is the index of the slot the next frame will use.
func (f *FrameSynchronizer) Current() int {
	return f.current
}

func (f *FrameSynchronizer) State(slot int) SlotState {
	return f.states[slot]
}

// DrawFrame runs one frame on the current slot against chain.
//
// An out-of-date acquire aborts the frame before anything is submitted and
// leaves the slot index where it was. A suboptimal acquire or present, or a
// pending resize, still presents and then asks for recreation.
func (f *FrameSynchronizer) DrawFrame(chain *Chain, resizePending bool) (FrameResult, error) {
	slot := f.slots[f.current]
	res := FrameResult{Slot: f.current}

	if err := slot.WaitFence(NoTimeout); err != nil {
		return res, errors.Wrapf(err, "wait for frame slot %d", f.current)
	}
	f.states[f.current] = SlotIdle

	image, status, err := chain.Swapchain.AcquireNextImage(slot, f.timeout)
	if err != nil {
		return res, errors.Wrap(err, "acquire swapchain image")
	}
	if status == StatusOutOfDate {
		res.Recreate = true
		return res, nil
	}
	res.Image = image
	recreate := status == StatusSuboptimal || resizePending

	// Resetting only after a successful acquire keeps the fence signaled when
	// the frame is abandoned, so the next wait on this slot cannot deadlock.
	if err := slot.ResetFence(); err != nil {
		return res, errors.Wrapf(err, "reset fence of slot %d", f.current)
	}

	f.states[f.current] = SlotRecording
	if err := recordFrame(slot, chain, image, f.clear); err != nil {
		return res, err
	}
	if err := slot.Submit(); err != nil {
		return res, errors.Wrapf(err, "submit frame slot %d", f.current)
	}
	f.states[f.current] = SlotSubmitted

	status, err = chain.Swapchain.Present(slot, image)
	if err != nil {
		return res, errors.Wrap(err, "present")
	}
	res.Presented = true
	if status != StatusSuccess {
		recreate = true
	}
	res.Recreate = recreate

	f.current = (f.current + 1) % len(f.slots)
	return res, nil
}

// Reset returns every slot to idle. Call it only once the device is idle.
func (f *FrameSynchronizer) Reset() {
	for i := range f.states {
		f.states[i] = SlotIdle
	}
}

func (f *FrameSynchronizer) Destroy() {
	for i := len(f.slots) - 1; i >= 0; i-- {
		f.slots[i].Destroy()
	}
	f.slots = nil
}
