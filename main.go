/*
 * drum1100 - Main process.
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

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/ncornish/drum1100/command/console"
	config "github.com/ncornish/drum1100/config/configparser"
	"github.com/ncornish/drum1100/config/debugconfig"
	"github.com/ncornish/drum1100/emu/bus"
	"github.com/ncornish/drum1100/emu/drum"
	"github.com/ncornish/drum1100/emu/interp"
	"github.com/ncornish/drum1100/emu/iosystem"
	"github.com/ncornish/drum1100/emu/registry"
	"github.com/ncornish/drum1100/emu/timing"
	logger "github.com/ncornish/drum1100/util/logger"

	_ "github.com/ncornish/drum1100/devices/papertape"
	_ "github.com/ncornish/drum1100/devices/plotter"
	_ "github.com/ncornish/drum1100/devices/typewriter"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "drum1100.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug messages to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("drum1100 started")

	d := drum.New()
	b := bus.New()
	b.PowerUp()
	events := &timing.EventList{}
	io := iosystem.New(d, b, events)
	sched := timing.New()
	machine := interp.New(d, b, io, sched)
	machine.SetTraceSink(func(r interp.TraceRecord) {
		slog.Debug("trace", "L", r.L, "command", r.Command)
	})

	debugconfig.Machine = machine

	if *optConfig != "" {
		if _, err := os.Stat(*optConfig); err == nil {
			if err := config.LoadConfigFile(*optConfig); err != nil {
				Logger.Error("loading configuration failed", "error", err)
				os.Exit(1)
			}
		} else {
			Logger.Warn("configuration file not found, starting with no devices attached", "file", *optConfig)
		}
	}

	done := make(chan struct{})
	go runMachine(machine, sched, done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	con := console.New(machine, os.Stdin, os.Stdout)
	consoleDone := make(chan struct{})
	go func() {
		con.Run()
		close(consoleDone)
	}()

	select {
	case <-sigChan:
		Logger.Info("got quit signal")
	case <-consoleDone:
		Logger.Info("console requested quit")
	}

	close(done)
	sched.Cancel()
	shutDown()
	Logger.Info("shut down complete")
}

// runMachine advances the interpreter one word-time at a time, pacing
// itself against wall-clock time through the scheduler, grounded in the
// teacher's goroutine-per-CPU run loop (emu/core.Start).
func runMachine(in *interp.Interpreter, sched *timing.Scheduler, done <-chan struct{}) {
	var wordTimes int64
	for {
		select {
		case <-done:
			return
		default:
		}

		if in.Halted() {
			if sched.DelayUntil(sched.DeadlineFor(wordTimes + 1)) == timing.Canceled {
				return
			}
			wordTimes++
			continue
		}

		if sched.DelayUntil(sched.DeadlineFor(wordTimes)) == timing.Canceled {
			return
		}
		in.Step()
		wordTimes++
	}
}

// shutDown releases every attached device's resources, mirroring the
// teacher's per-device ShutDown pass at process exit.
func shutDown() {
	for _, dev := range registry.All() {
		dev.ShutDown()
	}
}
