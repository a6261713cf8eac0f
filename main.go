package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"lms/cache"
	"lms/config"
	authControllers "lms/controllers/auth"
	courseControllers "lms/controllers/course"
	"lms/database"
	"lms/logger"
	"lms/middleware"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	"lms/upstream"
	"lms/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer appLog.Sync()

	database.ConnectDb()
	middleware.Log = appLog

	lms := upstream.New(cfg.UpstreamApiURL, cfg.UpstreamTimeout, cfg.Location, appLog)
	store := cache.New(cfg.RedisAddr, appLog)
	mailer := utils.NewMailer(cfg.SendgridApiKey, cfg.AppName, cfg.EmailSender, appLog)

	app := fiber.New(fiber.Config{AppName: cfg.AppName})

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

	courseHandler := courseControllers.NewHandler(courseControllers.Deps{
		LMS:          lms,
		Cache:        store,
		Mailer:       mailer,
		Log:          appLog,
		AppName:      cfg.AppName,
		PollInterval: cfg.LivePollInterval,
		Location:     cfg.Location,
	})

	authRoutes.SetupAuthRoutes(app, authControllers.NewHandler(lms, appLog))
	courseRoutes.SetupCourseRoutes(app, courseHandler)
	courseRoutes.SetupInstructorRoutes(app, courseHandler)

	scheduler, err := utils.InitializeSessionScheduler(appLog)
	if err != nil {
		appLog.Fatal("failed to start session scheduler", "error", err)
	}
	defer scheduler.Stop()

	appLog.Info("server is running", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}
