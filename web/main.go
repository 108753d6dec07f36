package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	config := server.DefaultConfig()

	// Parse command line flags
	flag.IntVar(&config.Port, "port", config.Port, "Port to serve on")
	flag.IntVar(&config.Width, "width", config.Width, "Default live view width")
	flag.IntVar(&config.Height, "height", config.Height, "Default live view height")
	flag.IntVar(&config.MaxBounces, "bounces", config.MaxBounces, "Default maximum number of bounces")
	flag.StringVar(&config.Scene, "scene", config.Scene, "Default scene id")
	flag.StringVar(&config.StaticDir, "static", config.StaticDir, "Directory with the browser client")
	flag.StringVar(&config.ScenesDir, "scenes", config.ScenesDir, "Directory with JSON scenes")
	flag.Parse()

	webServer := server.NewServer(config)

	log.Printf("Go Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", config.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
