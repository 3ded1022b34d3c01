package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"tendermarket/db"
	"tendermarket/db/migrations"
	"tendermarket/internal/files"
	"tendermarket/internal/handlers"
	"tendermarket/internal/obs"
)

func main() {
	logger := obs.NewLogger()
	defer logger.Sync()

	connString := os.Getenv("POSTGRES_CONN")
	if connString == "" {
		logger.Fatal("POSTGRES_CONN env variable is not set")
	}
	if os.Getenv("AUTH_SECRET") == "" {
		logger.Fatal("AUTH_SECRET env variable is not set")
	}

	dbConn, err := sqlx.Connect("postgres", connString)
	if err != nil {
		logger.Fatal("cannot connect to DB", zap.Error(err))
	}
	defer dbConn.Close()

	migrations.Run()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	fileStore, err := files.NewStore(uploadDir)
	if err != nil {
		logger.Fatal("cannot init file store", zap.Error(err))
	}

	tokenTTL := 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			logger.Fatal("invalid TOKEN_TTL", zap.Error(err))
		}
		tokenTTL = ttl
	}

	store := db.NewStorage(dbConn)
	h := handlers.NewHandler(store, fileStore, logger, tokenTTL)

	obs.Init()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(handlers.RequestLogger(logger))

	r.Handle("/metrics", obs.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(fileStore.Dir()))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		// credential endpoints are rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(handlers.RateLimit(10, 5))
			r.Post("/auth/register", h.RegisterHandler)
			r.Post("/auth/login", h.LoginHandler)
		})

		// public reads
		r.Get("/tenders", h.GetTendersHandler)
		r.Get("/tenders/{tenderId}", h.GetTenderHandler)
		r.Get("/companies/{companyId}", h.GetCompanyHandler)
		r.Get("/search/companies", h.SearchCompaniesHandler)
		r.Get("/search/tenders", h.SearchTendersHandler)

		// everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/auth/profile", h.ProfileHandler)

			r.Post("/tenders", h.CreateTenderHandler)
			r.Get("/tenders/my", h.GetMyTendersHandler)
			r.Put("/tenders/{tenderId}", h.UpdateTenderHandler)
			r.Get("/tenders/{tenderId}/applications", h.GetTenderApplicationsHandler)

			r.Post("/applications", h.CreateApplicationHandler)
			r.Get("/applications/my", h.GetMyApplicationsHandler)
			r.Get("/applications/{applicationId}", h.GetApplicationHandler)
			r.Patch("/applications/{applicationId}/status", h.UpdateApplicationStatusHandler)

			r.Put("/organizations/me", h.UpdateMyOrganizationHandler)
			r.Get("/organizations/me/goods", h.GetMyGoodsHandler)
			r.Post("/organizations/me/goods", h.CreateGoodsHandler)
			r.Put("/goods/{goodsId}", h.UpdateGoodsHandler)
			r.Delete("/goods/{goodsId}", h.DeleteGoodsHandler)

			r.Post("/files/upload", h.UploadFileHandler)
			r.Delete("/files", h.DeleteFileHandler)
		})
	})

	serverAddr := os.Getenv("SERVER_ADDRESS")
	if serverAddr == "" {
		serverAddr = "0.0.0.0:8080"
	}

	logger.Info("starting server", zap.String("addr", serverAddr))
	if err := http.ListenAndServe(serverAddr, obs.Instrument(r)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
