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

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/venicegeo/geojson-go/geojson"

	_ "github.com/lib/pq"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/worldbank/ImageryStorage/catalog"
	"github.com/worldbank/ImageryStorage/pipeline"
	"github.com/worldbank/ImageryStorage/util"
)

const runFrequencyEnv = "RECONCILE_FREQUENCY"
const defaultRunFrequency = 24 * time.Hour

func getPortStr() string {
	if port, ok := os.LookupEnv("PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

// serveAction starts the scheduled runner and an http server around it
func serveAction(*cli.Context) {
	logContext := &(util.BasicLogContext{})

	engine, err := pipeline.NewEngineFromEnv(logContext, dbConnProvider)
	if err != nil {
		util.LogFatal(logContext, err.Error())
	}
	runner := pipeline.NewRunner(engine)

	// The channel that sends the start/stop messages to the runner.
	messageChan := make(chan string, 5) // small buffer.

	// Start the sleep/run loop.
	go runner.RunWhile(messageChan, getTimerDuration())

	router := createRouter(runner, messageChan)

	util.LogInfo(logContext, "Listening on port "+getPortStr())
	launchServerFunc(getPortStr(), router)
}

func createRouter(runner *pipeline.Runner, messageChan chan<- string) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("OK"))
	})
	router.HandleFunc("/run/", func(resp http.ResponseWriter, req *http.Request) {
		handleRunStatus(runner, resp, req)
	})
	router.HandleFunc("/run/start", func(resp http.ResponseWriter, req *http.Request) {
		handleForceStartRun(runner, messageChan, resp, req)
	})
	router.HandleFunc("/run/cancel", func(resp http.ResponseWriter, req *http.Request) {
		handleCancel(runner, messageChan, resp, req)
	})
	router.HandleFunc("/extents", handleExtentLookup)
	return router
}

// handleRunStatus requests the status from the runner and writes it out.
func handleRunStatus(runner *pipeline.Runner, writer http.ResponseWriter, req *http.Request) {
	fmt.Fprintln(writer, runner.GetStatus())
}

// handleForceStartRun sends a "begin" message to the runner and returns the new status to the user.
func handleForceStartRun(runner *pipeline.Runner, messageChan chan<- string, writer http.ResponseWriter, req *http.Request) {
	select {
	case messageChan <- pipeline.BeginRunMessage:
		fmt.Fprintln(writer, "Begin run request submitted.")
	default:
		fmt.Fprintln(writer, "Error submitting request.")
	}
	fmt.Fprintln(writer, runner.GetStatus())
}

// handleCancel sends a "cancel" message to the runner and returns the new status to the user.
func handleCancel(runner *pipeline.Runner, cancelChan chan<- string, writer http.ResponseWriter, req *http.Request) {
	select {
	case cancelChan <- pipeline.AbortRunMessage:
		fmt.Fprintln(writer, "Cancel request submitted.")
	default:
		fmt.Fprintln(writer, "Error submitting cancel request.")
	}
	fmt.Fprintln(writer, runner.GetStatus())
}

// handleExtentLookup serves a persisted archive extent as a GeoJSON feature.
// The archive is identified by its path in the "archive" query parameter.
func handleExtentLookup(writer http.ResponseWriter, req *http.Request) {
	logContext := &(util.BasicLogContext{})

	archivePath := req.URL.Query().Get("archive")
	if archivePath == "" {
		util.HTTPError(req, writer, logContext, "Missing required 'archive' query parameter", http.StatusBadRequest)
		return
	}

	db, err := getDbConnectionFunc(logContext)
	if err != nil {
		util.HTTPError(req, writer, logContext, "Extents database unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer db.Close()

	store := catalog.Store{DB: db}
	extent, err := store.GetExtent(archivePath)
	if err != nil {
		util.HTTPError(req, writer, logContext, "Extent lookup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if extent == nil {
		util.HTTPError(req, writer, logContext, "No extent recorded for "+archivePath, http.StatusNotFound)
		return
	}

	feature, err := extent.GeoJSONFeature()
	if err != nil {
		util.HTTPError(req, writer, logContext, "Could not render extent: "+err.Error(), http.StatusInternalServerError)
		return
	}
	body, err := geojson.Write(feature)
	if err != nil {
		util.HTTPError(req, writer, logContext, "Could not render extent: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.Write(body)
}

var launchServerFunc = launchServer

func launchServer(portStr string, router *mux.Router) {
	server := http.Server{
		Addr:    portStr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}

func getTimerDuration() time.Duration {
	duration, _ := time.ParseDuration(os.Getenv(runFrequencyEnv))

	if duration < time.Minute {
		log.Printf("Specified duration of %v is too small. Setting to default.", duration)
		duration = defaultRunFrequency
	}

	return duration
}
