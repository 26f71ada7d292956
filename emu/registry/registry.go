/*
 * drum1100 - Device name registry.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package registry is the by-name counterpart of the teacher's channel
// device table (emu/sys_channel.AddDevice/GetDevice): every attached
// peripheral registers itself here under its configuration-file
// instance name so the console and the "DEBUG" configuration line can
// find it without a channel/device-number address.
package registry

import (
	"fmt"

	"github.com/ncornish/drum1100/emu/device"
)

var devices = map[string]device.Device{}

// Add registers dev under name, failing if the name is already taken.
func Add(name string, dev device.Device) error {
	if _, ok := devices[name]; ok {
		return fmt.Errorf("device %s already exists", name)
	}
	devices[name] = dev
	return nil
}

// Get looks up a previously registered device by name.
func Get(name string) (device.Device, error) {
	dev, ok := devices[name]
	if !ok {
		return nil, fmt.Errorf("no device named %s", name)
	}
	return dev, nil
}

// All returns every registered device, for shutdown and console listing.
func All() map[string]device.Device {
	return devices
}
