// cmd/server/main.go
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/capitolscrape/congressvideo/internal/config"
	"github.com/capitolscrape/congressvideo/internal/database"
	"github.com/capitolscrape/congressvideo/internal/server"
	"github.com/capitolscrape/congressvideo/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	listen := flag.String("listen", "", "listen address (overrides configuration)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *listen != "" {
		cfg.Server.ListenAddress = *listen
	}

	log := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.LogLevel))

	db, err := database.Open(database.Config{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, log)
	log.Infof("listening on %s", cfg.Server.ListenAddress)
	if err := http.ListenAndServe(cfg.Server.ListenAddress, srv.Router()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
