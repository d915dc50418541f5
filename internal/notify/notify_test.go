// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_FanOut(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	n := bus.Publish(Notice{Kind: KindSuccess, Text: "Chat cleared successfully!"})
	assert.Equal(t, 2, n)

	for _, ch := range []<-chan Notice{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, KindSuccess, got.Kind)
			assert.Equal(t, "Chat cleared successfully!", got.Text)
			assert.False(t, got.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("notice not delivered")
		}
	}
}

func TestBus_KeepsExplicitTime(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	bus.Publish(Notice{Kind: KindInfo, Text: "x", At: at})
	assert.Equal(t, at, (<-ch).At)
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	for i := 0; i < DefaultBuffer; i++ {
		bus.Info("fill")
	}

	done := make(chan int)
	go func() { done <- bus.Publish(Notice{Text: "overflow"}) }()

	select {
	case n := <-done:
		assert.Equal(t, 0, n)
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	assert.Len(t, ch, DefaultBuffer)
}

func TestBus_Helpers(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Info("i")
	bus.Success("s")
	bus.Warning("w")
	bus.Error("e")

	want := []Kind{KindInfo, KindSuccess, KindWarning, KindError}
	for _, k := range want {
		got := <-ch
		assert.Equal(t, k, got.Kind)
	}
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Close()
	bus.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, bus.Publish(Notice{Text: "late"}))

	late := bus.Subscribe()
	_, ok = <-late
	require.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "info", KindInfo.String())
	assert.Equal(t, "success", KindSuccess.String())
	assert.Equal(t, "warning", KindWarning.String())
	assert.Equal(t, "error", KindError.String())
}
