package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/po-console/internal/application/approval"
	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/auth"
	"github.com/jhoicas/po-console/internal/application/documents"
	"github.com/jhoicas/po-console/internal/application/draft"
	"github.com/jhoicas/po-console/internal/application/orders"
	"github.com/jhoicas/po-console/internal/application/query"
	"github.com/jhoicas/po-console/internal/application/usecase"
	"github.com/jhoicas/po-console/internal/infrastructure/cache"
	"github.com/jhoicas/po-console/internal/infrastructure/draftstore"
	"github.com/jhoicas/po-console/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/po-console/internal/infrastructure/pdf"
	"github.com/jhoicas/po-console/internal/infrastructure/postgres"
	"github.com/jhoicas/po-console/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/po-console/internal/interfaces/http"
	"github.com/jhoicas/po-console/pkg/config"
	"github.com/jhoicas/po-console/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	approvalRepo := postgres.NewApprovalRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	historyRepo := postgres.NewEmailHistoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de consultas: sin Redis se consulta siempre la base
	var queryCache *query.Client
	if redisClient, err := cache.OpenRedis(cfg.Redis.Addr, cfg.Redis.DB); err != nil {
		log.Warn().Err(err).Msg("redis no disponible, caché de consultas deshabilitado")
	} else {
		defer redisClient.Close()
		queryCache = query.NewClient(cache.NewRedisStore(redisClient), cfg.Redis.CacheTTL, log)
	}

	recorder := audit.NewRecorder(auditRepo, log)

	// MinIO y SMTP son opcionales; las interfaces quedan nil (no un puntero nil tipado)
	docDeps := documents.Deps{
		Orders:        orderRepo,
		Vendors:       vendorRepo,
		Companies:     companyRepo,
		History:       historyRepo,
		PDF:           infrapdf.NewMarotoPDFGenerator(cfg.PDF.FontPath),
		Recorder:      recorder,
		Cache:         queryCache,
		PublicBaseURL: cfg.App.PublicBaseURL,
		PreviewDelay:  cfg.PDF.PreviewDelay,
		Log:           log,
	}
	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a MinIO")
	}
	if objects != nil {
		docDeps.Objects = objects
	} else {
		log.Warn().Msg("MINIO_ENDPOINT vacío, almacenamiento de documentos deshabilitado")
	}
	if sender := mail.NewSender(cfg.SMTP); sender != nil {
		docDeps.Mailer = sender
	} else {
		log.Warn().Msg("SMTP_HOST vacío, envío de correos deshabilitado")
	}
	documentSvc := documents.NewService(docDeps)

	approvalSvc := approval.NewService(approvalRepo, recorder, queryCache)
	ordersUC := orders.NewUseCase(orders.Deps{
		Orders:    orderRepo,
		Vendors:   vendorRepo,
		Projects:  projectRepo,
		Templates: templateRepo,
		Tx:        txRunner,
		Recorder:  recorder,
		Cache:     queryCache,
		Preview:   documentSvc,
		Approval:  approvalSvc,
		Log:       log,
	})

	draftDB, err := draftstore.Open(cfg.Drafts.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de borradores")
	}
	autoSaver := draft.NewAutoSaver(draft.NewStore(draftstore.NewStore(draftDB)), cfg.Drafts.AutosaveDelay, log)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, recorder, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 << 20,
	})
	app.Use(recover.New())
	// la consola envía la cookie de sesión (credentials: include)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowCredentials: true,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Purchase Order Console API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       usecase.NewUserUseCase(userRepo),
		CompanyUC:    usecase.NewCompanyUseCase(companyRepo, projectRepo),
		VendorUC:     usecase.NewVendorUseCase(vendorRepo, recorder, queryCache),
		ItemUC:       usecase.NewItemUseCase(itemRepo, categoryRepo, recorder, queryCache),
		TemplateUC:   usecase.NewTemplateUseCase(templateRepo, recorder, queryCache),
		Orders:       ordersUC,
		Approval:     approvalSvc,
		Audit:        audit.NewUseCase(auditRepo, recorder, log),
		Documents:    documentSvc,
		Drafts:       autoSaver,
		JWTSecret:    cfg.JWT.Secret,
		SecureCookie: cfg.App.Env == "production",
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// lo pendiente se guarda antes de cerrar las conexiones
	autoSaver.Close()
	documentSvc.Close()

	log.Info().Msg("aplicación detenida")
}
