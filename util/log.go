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

package util

import (
	"fmt"
	"log"
	"time"
)

// Severity is a syslog-style message severity
type Severity int

// Severity levels, highest priority first
const (
	FATAL Severity = iota + 2
	ERROR
	ALERT
	NOTICE
	INFO
	DEBUG
)

func (s Severity) String() string {
	switch s {
	case FATAL:
		return "FATAL"
	case ERROR:
		return "ERROR"
	case ALERT:
		return "ALERT"
	case NOTICE:
		return "NOTICE"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	}
	return "UNKNOWN"
}

// LogContext is the context for a log message: which component is logging
// and under what session
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a LogContext carrying no component information
type BasicLogContext struct {
	sessionID string
}

// AppName returns an empty string
func (c *BasicLogContext) AppName() string {
	return ""
}

// SessionID returns a Session ID, creating one if needed
func (c *BasicLogContext) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *BasicLogContext) LogRootDir() string {
	return ""
}

// LogAuditInput is the paperwork for an audit log entry
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

func writeLog(ctx LogContext, severity Severity, message string) {
	app := ctx.AppName()
	if app == "" {
		app = "-"
	}
	log.Printf("[%s] %s session=%s %s", severity, app, ctx.SessionID(), message)
}

// LogInfo logs an informational message
func LogInfo(ctx LogContext, message string) {
	writeLog(ctx, INFO, message)
}

// LogAlert logs a message that requires operator attention but is not an error
func LogAlert(ctx LogContext, message string) {
	writeLog(ctx, ALERT, message)
}

// LogSimpleErr logs a message together with its underlying error
func LogSimpleErr(ctx LogContext, message string, err error) {
	writeLog(ctx, ERROR, fmt.Sprintf("%s %v", message, err))
}

// LogFatal logs the message and terminates the process. Reserved for
// conditions that make the entire run's configuration unusable.
func LogFatal(ctx LogContext, message string) {
	writeLog(ctx, FATAL, message)
	log.Fatal(message)
}

// LogAudit logs a structured audit entry
func LogAudit(ctx LogContext, input LogAuditInput) {
	writeLog(ctx, input.Severity,
		fmt.Sprintf("AUDIT actor=%q action=%q actee=%q %s at=%s",
			input.Actor, input.Action, input.Actee, input.Message,
			time.Now().UTC().Format(time.RFC3339)))
}
