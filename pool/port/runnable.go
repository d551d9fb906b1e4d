package port

import "github.com/joshuapare/portpool/internal/fixedstr"

// RunnableData describes a runnable inside a process.
type RunnableData struct {
	Process          fixedstr.Name
	Runnable         fixedstr.Name
	DeviceIdentifier uint64
}

// Init fills r in place. Names longer than fixedstr.Capacity are truncated.
func (r *RunnableData) Init(process, runnable string, deviceID uint64) {
	r.Process.Set(process)
	r.Runnable.Set(runnable)
	r.DeviceIdentifier = deviceID
}

// NameInto copies the NUL-terminated runnable name into buf, truncating to
// fit, and returns the length of the full name.
func (r *RunnableData) NameInto(buf []byte) int {
	return r.Runnable.CopyTo(buf)
}

// ProcessNameInto is NameInto for the owning process name.
func (r *RunnableData) ProcessNameInto(buf []byte) int {
	return r.Process.CopyTo(buf)
}
