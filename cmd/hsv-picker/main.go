package main

import (
	"flag"
	"fmt"
	"log"
	_ "net/http/pprof"

	"gocv.io/x/gocv"

	picker "github.com/Dh-Van/hsv-picker"
)

func main() {
	settingsFile := flag.String("settings", "config.json", "Path to application's settings")
	flag.Parse()

	fmt.Printf("gocv version: %s\n", gocv.Version())
	fmt.Printf("opencv lib version: %s\n", gocv.OpenCVVersion())

	/* Read settings */
	settings, err := picker.NewSettings(*settingsFile)
	if err != nil {
		log.Println(err)
		return
	}

	app, err := picker.NewApp(settings)
	if err != nil {
		log.Println(err)
		return
	}

	if err := app.Run(); err != nil {
		log.Println(err)
	}

	fmt.Println("Shutting down...")
}
