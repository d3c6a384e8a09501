package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/annamworks/caterbook/config"
	"github.com/annamworks/caterbook/internal/adminapi"
	"github.com/annamworks/caterbook/internal/app"
	"github.com/annamworks/caterbook/internal/webserver"
)

var (
	showHelp        = flag.Bool("h", false, "show help")
	configFile      = flag.String("conf", "caterbook.yml", "config file path")
	initDB          = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	fetchPanchangam = flag.Bool("fetch-panchangam", false, "run the panchangam ingestion once, then exit")
	sendReminders   = flag.Bool("send-reminders", false, "run the reminder check once, then exit")
)

func main() {
	flag.Parse()
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	switch {
	case *initDB:
		application.InitDb()
		fmt.Println("database initialized")
		return
	case *fetchPanchangam:
		count, err := application.Panchangam().FetchAndStore()
		if err != nil {
			zap.L().Fatal("panchangam fetch failed", zap.Error(err))
		}
		fmt.Printf("panchangam data updated for %d days\n", count)
		return
	case *sendReminders:
		result := application.Reminder().CheckAndSend(time.Now())
		fmt.Printf("reminder run finished, emails sent: %d\n", result.EmailsSent)
		return
	}

	webserver.Init(application)
	adminapi.InitRouter()

	if err := webserver.Start(); err != nil {
		zap.L().Fatal("web server stopped", zap.Error(err))
	}
}
