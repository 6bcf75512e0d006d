package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"oceanwatch/config"
	"oceanwatch/cronjobs"
	"oceanwatch/db"
	"oceanwatch/geocode"
	"oceanwatch/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("No .env file loaded: %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") != "" {
		logrus.Info("OPENAI_API_KEY loaded, hotspot summaries enabled")
	}

	firestoreClient, err := db.InitFirestore()
	if err != nil {
		logrus.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore()

	if _, err := geocode.InitMapsClient(); err != nil {
		logrus.Warnf("Maps client unavailable, social posts without coordinates will be dropped: %v", err)
	}

	cfg := config.FromEnv()
	cronjobs.InitCronJobs(firestoreClient, cfg)

	r := routes.SetupRouter(firestoreClient, cfg)
	if err := r.Run(":8080"); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}
