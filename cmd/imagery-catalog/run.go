package main

import (
	"fmt"

	_ "github.com/lib/pq"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/worldbank/ImageryStorage/pipeline"
	"github.com/worldbank/ImageryStorage/util"
)

// runAction performs a single reconciliation run without scheduling.
func runAction(*cli.Context) {
	logContext := &(util.BasicLogContext{})
	engine, err := pipeline.NewEngineFromEnv(logContext, dbConnProvider)
	if err != nil {
		util.LogFatal(logContext, err.Error())
	}
	result := engine.Run(logContext, nil, nil)
	fmt.Println(result)
}
