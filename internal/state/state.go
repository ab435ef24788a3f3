// Package state holds process-wide application state that is read at startup.
package state

import "sync"

// Installed is the process-wide "application is installed" flag.
// It is loaded from the store at startup and flipped by the installer.
type Installed struct {
	mu sync.RWMutex
	on bool
}

// Get reports whether the application is marked installed.
func (f *Installed) Get() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.on
}

// Set marks the application installed or not installed.
func (f *Installed) Set(on bool) {
	f.mu.Lock()
	f.on = on
	f.mu.Unlock()
}

// Global is the flag shared by the servers and the installer.
var Global = &Installed{}
