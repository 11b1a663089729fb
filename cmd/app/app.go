package main

import (
	"os"

	"github.com/DRSN-tech/catalog-backend/internal/app"
	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/joho/godotenv"
)

//	@title			Catalog Categories API
//	@version		1.0
//	@description	Дерево категорий каталога: чтение, навигация и администрирование.
//	@BasePath		/api/v1
func main() {
	log := logger.NewSlogLogger()

	// .env нужен только для локального запуска
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to read .env: %v", err)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
