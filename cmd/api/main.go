package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/config"
	appHTTP "github.com/fieldops/timetrack-backend-go/internal/handler/http"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/calendar"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/cron"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/database"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/holiday"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/jwt"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/storage"
	"github.com/fieldops/timetrack-backend-go/internal/repository/postgresql"
	"github.com/fieldops/timetrack-backend-go/internal/service/file"
	journeyService "github.com/fieldops/timetrack-backend-go/internal/service/journey"
	timeclockService "github.com/fieldops/timetrack-backend-go/internal/service/timeclock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	clockEntryRepo := postgresql.NewClockEntryRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	journeyRuleRepo := postgresql.NewJourneyRuleRepository(db)
	journeyEntryRepo := postgresql.NewJourneyEntryRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}
	fileService := file.NewService(fileStorage)

	holidayClient := holiday.NewClient(cfg.Holiday.BaseURL, cfg.Holiday.CountryCode, 10*time.Second)
	businessCalendar := calendar.NewBusinessCalendar(holidayClient, cfg.Holiday.CacheTTL)

	timeclockSvc := timeclockService.NewService(clockEntryRepo, adjustmentRepo, siteRepo, fileService)
	journeySvc := journeyService.NewService(businessCalendar, journeyRuleRepo, journeyEntryRepo, clockEntryRepo)

	timeclockHandler := appHTTP.NewTimeclockHandler(timeclockSvc)
	journeyHandler := appHTTP.NewJourneyHandler(journeySvc)
	calendarHandler := appHTTP.NewCalendarHandler(businessCalendar)

	scheduler := cron.NewScheduler()
	journeyJobs := cron.NewJourneyJobs(clockEntryRepo, journeySvc)
	journeyJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		timeclockHandler,
		journeyHandler,
		calendarHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
