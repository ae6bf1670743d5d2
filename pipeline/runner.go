// Copyright 2019, The World Bank Group.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"fmt"
	"time"

	"github.com/worldbank/ImageryStorage/util"
)

// BeginRunMessage is sent on a channel to start a reconciliation run.
const BeginRunMessage = "start"

// AbortRunMessage is sent on a channel to stop an in-progress run.
const AbortRunMessage = "stop"

// Runner manages the state for scheduled reconciliation runs.
// Mainly useful when launching the run on an interval.
type Runner struct {
	engine     *Engine
	statusChan chan chan string
}

// NewRunner initializes a new runner around an engine.
func NewRunner(engine *Engine) *Runner {
	return &Runner{
		engine:     engine,
		statusChan: make(chan chan string, 10),
	}
}

// RunWhile performs the reconciliation run and waits for a channel.
// Note: this is blocking.
// The function exits when messageChan is closed and any in-progress run
// completes. To close quickly, send a stop message on messageChan.
func (r *Runner) RunWhile(messageChan <-chan string, maxTimeBetweenRuns time.Duration) {
	previousStatus := "\tNone"
	var nextScheduledStartTime time.Time
	var scheduleTimer *time.Timer

	for {
		if scheduleTimer == nil {
			scheduleTimer = time.NewTimer(maxTimeBetweenRuns)
			nextScheduledStartTime = time.Now().Add(maxTimeBetweenRuns)
		}

		select {
		case <-scheduleTimer.C:
			scheduleTimer = nil
			previousStatus = r.runOnce(messageChan)
		case msg, ok := <-messageChan:
			if !ok {
				return // The message channel has been closed.
			}
			switch msg {
			case BeginRunMessage:
				scheduleTimer = nil
				previousStatus = r.runOnce(messageChan)
			default:
				// Ignore this message. We only want ones for begin.
			}
		case respChan := <-r.statusChan:
			select {
			case respChan <- fmt.Sprintf("%v\nStatus: Sleeping until %v\nPrevious run:\n%v",
				time.Now().Format("Mon Jan _2 15:04:05 2006"),
				nextScheduledStartTime.Format("Mon Jan _2 15:04:05 2006"),
				previousStatus):
			default:
			}
		}
	}
}

// GetStatus is a thread safe way to get information about the run.
func (r *Runner) GetStatus() string {
	responseChan := make(chan string, 1) // Must have a buffer; Run won't wait if it can't send.
	r.statusChan <- responseChan
	return <-responseChan
}

func (r *Runner) runOnce(messageChan <-chan string) string {
	// Each run gets its own session ID so its log lines correlate.
	return r.engine.Run(&util.BasicLogContext{}, messageChan, r.statusChan)
}
