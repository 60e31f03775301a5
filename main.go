package main

import (
	"finboard/ai"
	"finboard/cache"
	"finboard/config"
	analysisController "finboard/controllers/analysis"
	marketController "finboard/controllers/market"
	portfolioController "finboard/controllers/portfolio"
	"finboard/database"
	"finboard/logger"
	"finboard/marketdata"
	adminRoutes "finboard/routers/adminRoutes"
	alertsRoutes "finboard/routers/alertsRoutes"
	analysisRoutes "finboard/routers/analysisRoutes"
	authRoutes "finboard/routers/authRoutes"
	contactRoutes "finboard/routers/contactRoutes"
	creditsRoutes "finboard/routers/creditsRoutes"
	marketRoutes "finboard/routers/marketRoutes"
	plansRoutes "finboard/routers/plansRoutes"
	portfolioRoutes "finboard/routers/portfolioRoutes"
	"finboard/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadConfig()
	logger.Init(config.AppConfig.LogLevel, config.AppConfig.LogFile)
	database.ConnectDb()

	store := cache.New(*config.AppConfig)
	market := marketdata.NewService(*config.AppConfig, store)
	llm := ai.NewOpenRouterClient(*config.AppConfig)
	analyzer := ai.NewAnalyzer(database.Database.Db, store, market, llm, *config.AppConfig)

	marketController.Market = market
	portfolioController.Market = market
	analysisController.Analyzer = analyzer

	utils.StartAlertScheduler(market)
	utils.StartCreditScheduler()
	utils.StartMaintenanceScheduler()

	app := fiber.New()

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	marketRoutes.SetupMarketRoutes(app)
	portfolioRoutes.SetupPortfolioRoutes(app)
	analysisRoutes.SetupAnalysisRoutes(app)
	creditsRoutes.SetupCreditsRoutes(app)
	alertsRoutes.SetupAlertsRoutes(app)
	contactRoutes.SetupContactRoutes(app)
	plansRoutes.SetupPlansRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	logger.Log.Info().Str("port", config.AppConfig.Port).Msg("Server is running")
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server stopped")
	}
}
