package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/approval"
	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/auth"
	"github.com/jhoicas/po-console/internal/application/documents"
	"github.com/jhoicas/po-console/internal/application/draft"
	"github.com/jhoicas/po-console/internal/application/listing"
	"github.com/jhoicas/po-console/internal/application/orders"
	"github.com/jhoicas/po-console/internal/application/usecase"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	CompanyUC    *usecase.CompanyUseCase
	VendorUC     *usecase.VendorUseCase
	ItemUC       *usecase.ItemUseCase
	TemplateUC   *usecase.TemplateUseCase
	Orders       *orders.UseCase
	Approval     *approval.Service
	Audit        *audit.UseCase
	Documents    *documents.Service
	Drafts       *draft.AutoSaver
	JWTSecret    string
	SecureCookie bool
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	errs := errorWriter{log: log.Component("http")}

	// quién puede hacer qué
	var (
		admins   = RequireRole(entity.RoleAdmin)
		managers = RequireRole(entity.RoleAdmin, entity.RoleManager)
		writers  = RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RolePurchaser)
	)

	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.SecureCookie, errs)
	documentHandler := NewDocumentHandler(deps.Documents, errs)

	// Públicas
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/email-tracking/:id/open", documentHandler.TrackOpen)

	// Rutas protegidas (Bearer o cookie de sesión)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", admins, authHandler.Register)
	protected.Get("/users", authHandler.Users)

	// Companies
	companyHandler := NewCompanyHandler(deps.CompanyUC, errs)
	protected.Get("/companies/current", companyHandler.Current)
	protected.Get("/companies", admins, companyHandler.List)
	protected.Post("/companies", admins, companyHandler.Create)
	protected.Get("/companies/:id", admins, companyHandler.GetByID)
	protected.Get("/projects", companyHandler.Projects)

	// Orders
	orderHandler := NewOrderHandler(deps.Orders, errs)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", writers, orderHandler.Create)
	ordersGroup.Get("/export", orderHandler.Export)
	ordersGroup.Post("/import-excel", writers, orderHandler.ImportExcel)
	ordersGroup.Post("/bulk-delete/preview", writers, orderHandler.BulkDeletePreview)
	ordersGroup.Post("/bulk-delete", writers, orderHandler.BulkDelete)
	ordersGroup.Post("/generate-pdf", writers, documentHandler.GeneratePDF)
	ordersGroup.Post("/send-email", writers, documentHandler.SendEmail)
	ordersGroup.Post("/send-email-with-excel", writers, documentHandler.SendEmailWithExcel)
	ordersGroup.Get("/:id", orderHandler.Get)
	ordersGroup.Put("/:id", writers, orderHandler.Update)
	ordersGroup.Delete("/:id", writers, orderHandler.Delete)
	ordersGroup.Get("/:id/pdf", documentHandler.PDF)
	ordersGroup.Get("/:id/preview", documentHandler.Preview)

	// Email automation
	automation := protected.Group("/excel-automation")
	automation.Get("/email-history", documentHandler.History)
	automation.Post("/resend-email/:id", writers, documentHandler.Resend)

	// Vendors
	vendorHandler := NewVendorHandler(deps.VendorUC, errs)
	vendors := protected.Group("/vendors")
	vendors.Get("/", vendorHandler.List)
	vendors.Post("/", writers, vendorHandler.Create)
	vendors.Post("/validate", vendorHandler.Validate)
	vendors.Get("/:id", vendorHandler.GetByID)
	vendors.Put("/:id", writers, vendorHandler.Update)
	vendors.Delete("/:id", managers, vendorHandler.Delete)

	// Items
	itemHandler := NewItemHandler(deps.ItemUC, errs)
	items := protected.Group("/items")
	items.Get("/", itemHandler.List)
	items.Post("/", writers, itemHandler.Create)
	items.Get("/categories", itemHandler.Categories)
	items.Post("/categories", managers, itemHandler.CreateCategory)
	items.Get("/categories/major", itemHandler.Major)
	items.Get("/categories/middle", itemHandler.Middle)
	items.Get("/categories/minor", itemHandler.Minor)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", writers, itemHandler.Update)
	items.Delete("/:id", managers, itemHandler.Delete)

	// Templates (administración)
	templateHandler := NewTemplateHandler(deps.TemplateUC, errs)
	templates := protected.Group("/admin/templates", admins)
	templates.Get("/", templateHandler.List)
	templates.Post("/", templateHandler.Create)
	templates.Get("/:id", templateHandler.GetByID)
	templates.Put("/:id", templateHandler.Update)
	templates.Delete("/:id", templateHandler.Delete)
	protected.Patch("/order-templates/:id/toggle-status", admins, templateHandler.ToggleStatus)

	// Approval settings
	approvalHandler := NewApprovalHandler(deps.Approval, errs)
	approvals := protected.Group("/approval-settings")
	approvals.Get("/workflow-settings", approvalHandler.Settings)
	approvals.Get("/workflow-settings/:companyId", approvalHandler.Settings)
	approvals.Post("/workflow-settings", admins, approvalHandler.SaveSettings)
	approvals.Post("/workflow-settings/:companyId", admins, approvalHandler.SaveSettings)
	approvals.Get("/step-templates", approvalHandler.ListSteps)
	approvals.Get("/step-templates/groups", approvalHandler.Groups)
	approvals.Get("/step-templates/:id", approvalHandler.GetStep)
	approvals.Post("/step-templates", admins, approvalHandler.CreateStep)
	approvals.Put("/step-templates/:id", admins, approvalHandler.UpdateStep)
	approvals.Delete("/step-templates/:id", admins, approvalHandler.DeleteStep)
	approvals.Get("/preview", approvalHandler.Preview)

	// Audit
	auditHandler := NewAuditHandler(deps.Audit, errs)
	audits := protected.Group("/audit", managers)
	audits.Get("/logs", auditHandler.Logs)
	audits.Get("/dashboard", auditHandler.Dashboard)
	audits.Get("/settings", auditHandler.Settings)
	audits.Put("/settings", admins, auditHandler.UpdateSettings)
	audits.Post("/archive", admins, auditHandler.Archive)

	// Drafts
	draftHandler := NewDraftHandler(deps.Drafts, errs)
	protected.Get("/drafts/:key", draftHandler.Get)
	protected.Put("/drafts/:key", draftHandler.Put)
	protected.Delete("/drafts/:key", draftHandler.Delete)

	// Table views
	viewHandler := NewViewHandler(
		listing.NewOrdersList(deps.Orders),
		listing.NewVendorsList(deps.VendorUC),
		listing.NewItemsList(deps.ItemUC),
		listing.NewTemplatesList(deps.TemplateUC),
		errs,
	)
	views := protected.Group("/views")
	views.Get("/orders", viewHandler.Orders)
	views.Get("/vendors", viewHandler.Vendors)
	views.Get("/items", viewHandler.Items)
	views.Get("/templates", viewHandler.Templates)
}
