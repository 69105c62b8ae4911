package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "holiday_travel/internal/adapters/http_server"
	"holiday_travel/internal/adapters/observability"
	"holiday_travel/internal/adapters/rapid"
	redisad "holiday_travel/internal/adapters/redis"
	"holiday_travel/internal/app"
	"holiday_travel/internal/shared"
	mysqlrepo "holiday_travel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	bookings := mysqlrepo.NewBookingRepo(db)
	travellers := mysqlrepo.NewTravellerRepo(db)
	packages := mysqlrepo.NewPackageRepo(db)
	hotels := mysqlrepo.NewHotelRepo(db)
	rooms := mysqlrepo.NewRoomRepo(db)
	users := mysqlrepo.NewUserRepo(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	api, err := rapid.New("https://"+cfg.RapidHost+"/api/v1/hotels", cfg.RapidKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize rapid client")
	}

	bookingSvc := app.NewBookingService(bookings, travellers, packages, users)
	hotelSvc := app.NewHotelService(api, hotels, rooms, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Bookings: bookingSvc, Hotels: hotelSvc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
