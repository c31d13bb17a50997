package main

import (
	"fmt"
	"log"

	"cautela-app/config"
	"cautela-app/controllers/idgen"
	"cautela-app/database"
	"cautela-app/metrics"
	"cautela-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupDashboardRoutes(app, db)
	routes.SetupMovementRoutes(app, db)
	routes.SetupCustodyRoutes(app, db)
	routes.SetupAllocationRoutes(app, db)
	routes.SetupMaterialRoutes(app, db)
	routes.SetupPersonRoutes(app, db)
	routes.SetupVehicleRoutes(app, db)
	routes.SetupCategoryRoutes(app, db)

	go func() {
		if err := metrics.Serve(":" + config.METRICS_PORT); err != nil {
			log.Println("Metrics server stopped:", err)
		}
	}()

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
