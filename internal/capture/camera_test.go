package capture

import (
	"errors"
	"testing"
)

func TestNewCamera_Defaults(t *testing.T) {
	cam := NewCamera(0)

	if cam.IsOpen() {
		t.Error("camera should not be open before Open()")
	}
	if cam.FPS() != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", cam.FPS(), DefaultFPS)
	}
	if cam.DeviceID() != 0 {
		t.Errorf("DeviceID() = %d, want 0", cam.DeviceID())
	}
}

func TestCamera_ReadFrameWhenClosed(t *testing.T) {
	cam := NewCamera(0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	cam.SetFPS(15)
	if cam.FPS() != 15 {
		t.Errorf("FPS() = %d, want 15", cam.FPS())
	}

	// Non-positive values are ignored
	cam.SetFPS(0)
	if cam.FPS() != 15 {
		t.Errorf("FPS() = %d after SetFPS(0), want 15", cam.FPS())
	}
	cam.SetFPS(-5)
	if cam.FPS() != 15 {
		t.Errorf("FPS() = %d after SetFPS(-5), want 15", cam.FPS())
	}
}

func TestCamera_SwitchDeviceWhileClosed(t *testing.T) {
	cam := NewCamera(0)

	// Switching a closed camera only records the index; no device is opened.
	if err := cam.SwitchDevice(2); err != nil {
		t.Fatalf("SwitchDevice() error = %v", err)
	}
	if cam.DeviceID() != 2 {
		t.Errorf("DeviceID() = %d, want 2", cam.DeviceID())
	}
	if cam.IsOpen() {
		t.Error("camera should remain closed after SwitchDevice")
	}

	// Switching to the current device is a no-op.
	if err := cam.SwitchDevice(2); err != nil {
		t.Fatalf("SwitchDevice() to same device error = %v", err)
	}
}

func TestCamera_CloseWhenNotOpen(t *testing.T) {
	cam := NewCamera(0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera error = %v", err)
	}
}
