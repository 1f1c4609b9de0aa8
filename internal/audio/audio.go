package audio

import (
	"sync"

	"github.com/julianstephens/focos/internal/logger"
)

// Player starts and stops the ambient track played during distraction-free
// focus.
type Player interface {
	Start(sound string) error
	Stop() error
}

// LogPlayer records what would be playing and logs each transition. It is the
// default player when no audio device is wired.
type LogPlayer struct {
	mu      sync.Mutex
	current string
}

func NewLogPlayer() *LogPlayer {
	return &LogPlayer{}
}

func (p *LogPlayer) Start(sound string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = sound
	logger.Info("Ambient audio started", "sound", sound)
	return nil
}

func (p *LogPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == "" {
		return nil
	}
	logger.Info("Ambient audio stopped", "sound", p.current)
	p.current = ""
	return nil
}

// Playing returns the current track, or "" when silent.
func (p *LogPlayer) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Nop ignores every call.
type Nop struct{}

func (Nop) Start(string) error { return nil }
func (Nop) Stop() error        { return nil }
