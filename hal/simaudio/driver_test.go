package simaudio

import (
	"context"
	"testing"
	"time"

	"github.com/FYZAFH/audiotab/hal"
)

func TestDiscoverReturnsFixedCatalog(t *testing.T) {
	d := NewDriver()
	found, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Discover() returned %d devices, want 2", len(found))
	}
}

func TestCreateDeviceRejectsUnknownDeviceID(t *testing.T) {
	d := NewDriver()
	_, err := d.CreateDevice(context.Background(), hal.DeviceConfig{DeviceID: "nope", SampleRate: 48000, ChannelCount: 1})
	if err == nil {
		t.Fatalf("CreateDevice() with unknown id should fail")
	}
}

func TestDeviceStartProducesFilledBuffers(t *testing.T) {
	d := NewDriver()
	dev, err := d.CreateDevice(context.Background(), hal.DeviceConfig{
		DeviceID: "sim-input-0", SampleRate: 48000, ChannelCount: 1, BufferSize: 64, Format: hal.FormatF32,
	})
	if err != nil {
		t.Fatalf("CreateDevice() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := dev.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if dev.State() != hal.StateRunning {
		t.Fatalf("State() = %v, want StateRunning", dev.State())
	}

	ch := dev.Channels()
	select {
	case buf := <-ch.FilledRx:
		if len(buf.Samples) != 64 {
			t.Fatalf("filled buffer len = %d, want 64", len(buf.Samples))
		}
		ch.EmptyTx <- buf
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a filled buffer")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := dev.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := dev.Stop(stopCtx); err != nil {
		t.Fatalf("second Stop() should be idempotent, got error = %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
