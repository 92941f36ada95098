package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/poofware/coi-service/internal/app"
	"github.com/poofware/coi-service/internal/config"
	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/controllers"
	"github.com/poofware/coi-service/internal/services"
	"github.com/poofware/coi-service/internal/utils"
)

func main() {
	if config.AppName == "" {
		config.AppName = config.DefaultAppName
	}
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize coi-service:", err)
	}
	defer application.Close()

	coiService := services.NewCOIService(
		application.Store,
		application.COIRepo,
		application.PropertyRepo,
		application.Metrics,
		app.DefaultDataset,
		cfg.Now,
	)
	propertyService := services.NewPropertyService(
		application.Store,
		application.PropertyRepo,
		application.Metrics,
		cfg.Now,
	)
	dashboardService := services.NewDashboardService(application.Store, cfg.SearchDebounce, cfg.Now)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), constants.RepositoryTimeout)
	err = coiService.Load(loadCtx, cfg.LDFlag_SeedDbWithTestData)
	cancelLoad()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load COI data")
	}

	router := controllers.NewRouter(controllers.Controllers{
		Health:    controllers.NewHealthController(application),
		COI:       controllers.NewCOIController(coiService, dashboardService),
		Property:  controllers.NewPropertyController(propertyService),
		Dashboard: controllers.NewDashboardController(dashboardService),
		Admin:     controllers.NewAdminController(coiService),
		Metrics:   application.Metrics.Handler(),
	})

	c := cron.New(cron.WithLocation(cfg.Location))
	if cfg.LDFlag_StatusMaintenance {
		if _, err := c.AddFunc(constants.StatusMaintenanceSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.RepositoryTimeout)
			defer cancel()
			if _, e := coiService.RefreshExpiryStatuses(ctx); e != nil {
				utils.Logger.WithError(e).Error("Scheduled expiry status maintenance failed")
			}
		}); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule expiry status maintenance cron")
		}
	}
	c.Start()
	defer c.Stop()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, config.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("coi-service failed to start:", err)
	}
}
