package main

import (
	"fmt"
	"os"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app"
)

func main() {
	fmt.Println("app starting")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/values_example.yaml"
	}

	application, err := app.NewApp(configPath)
	if err != nil {
		panic(err)
	}

	if err := application.ListenAndServe(); err != nil {
		panic(err)
	}
}
