/*
 * drum1100 - Debug options configuration.
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

// Package debugconfig registers the "DEBUG" configuration line. It is
// the by-name counterpart of the teacher's DEBUG model (config's
// setDebug targeting CHANNEL/CPU/TAPE/a device number): here the first
// token names either the command interpreter or an attached device, and
// the remaining tokens are option names that target recognizes.
package debugconfig

import (
	"errors"
	"strings"

	config "github.com/ncornish/drum1100/config/configparser"
	"github.com/ncornish/drum1100/emu/interp"
	"github.com/ncornish/drum1100/emu/registry"
)

// Machine is the single interpreter instance debug options apply to,
// wired up by main before the configuration file is loaded.
var Machine *interp.Interpreter

func init() {
	config.RegisterOptions("DEBUG", setDebug)
}

func setDebug(target string, options []config.Option) error {
	switch strings.ToUpper(target) {
	case "INTERP":
		return setInterpDebug(options)
	default:
		dev, err := registry.Get(target)
		if err != nil {
			return err
		}
		for _, opt := range options {
			if err := dev.Debug(strings.ToUpper(opt.Name)); err != nil {
				return err
			}
			for _, value := range opt.Value {
				if err := dev.Debug(strings.ToUpper(*value)); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func setInterpDebug(options []config.Option) error {
	if Machine == nil {
		return errors.New("debug interp: no machine configured")
	}
	for _, opt := range options {
		switch strings.ToUpper(opt.Name) {
		case "TRACE":
			Machine.Trace = true
		default:
			return errors.New("debug interp option invalid: " + opt.Name)
		}
	}
	return nil
}
