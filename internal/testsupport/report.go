package testsupport

import "sync"

// Recorder captures reporter emissions so tests can assert on exact warning
// and info traffic. It implements report.Reporter.
type Recorder struct {
	mu       sync.Mutex
	warnings []string
	infos    []string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Warn(message string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, message)
	return message
}

func (r *Recorder) Info(message string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, message)
	return message
}

// Warnings returns a copy of the captured warning messages.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}

// Infos returns a copy of the captured info messages.
func (r *Recorder) Infos() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.infos...)
}
