// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sound plays the short notification tone after a reply arrives.
//
// A terminal has no audio graph, so the tone is the terminal bell. Tones are
// rate limited so a burst of replies rings once.
package sound

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Bell is the BEL control character.
const Bell = "\a"

// MinInterval is the shortest gap between two tones.
const MinInterval = 250 * time.Millisecond

// Player rings the terminal bell on out.
type Player struct {
	mu      sync.Mutex
	out     io.Writer
	limiter *rate.Limiter
}

// NewPlayer returns a player writing to out. A nil out yields a player that
// never makes a sound.
func NewPlayer(out io.Writer) *Player {
	return &Player{
		out:     out,
		limiter: rate.NewLimiter(rate.Every(MinInterval), 1),
	}
}

// Play rings the bell unless a tone was played within MinInterval. It
// reports whether a tone was emitted. Failures are logged and swallowed: a
// missing tone never affects the exchange.
func (p *Player) Play() bool {
	if p == nil || p.out == nil {
		return false
	}
	if !p.limiter.Allow() {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.out, Bell); err != nil {
		log.Debug().Err(err).Msg("notification tone failed")
		return false
	}
	return true
}
