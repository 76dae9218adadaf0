//go:build !gpu

package compute

import "errors"

// Probe reports GPU capability. Default builds carry no GL bindings, so
// the probe always answers unavailable and the accelerator runs the CPU
// reference.
func Probe() Capability {
	return Capability{
		Status:  StatusUnavailable,
		Reason:  "built without gpu support",
		Backend: "cpu",
	}
}

// NewGPUBackend is only available under the gpu build tag.
func NewGPUBackend() (Backend, error) {
	return nil, errors.New("gpu backend not compiled in")
}
