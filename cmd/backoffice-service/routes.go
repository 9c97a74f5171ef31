package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	adminhandler "github.com/retailhub/backoffice/internal/admin/handler"
	authhandler "github.com/retailhub/backoffice/internal/auth/handler"
	authmw "github.com/retailhub/backoffice/internal/auth/middleware"
	billinghandler "github.com/retailhub/backoffice/internal/billing/handler"
	hrhandler "github.com/retailhub/backoffice/internal/hr/handler"
	invhandler "github.com/retailhub/backoffice/internal/inventory/handler"
	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/metrics"
	"github.com/retailhub/backoffice/pkg/permissions"
)

type handlers struct {
	auth       *authhandler.AuthHandler
	admin      *adminhandler.AdminHandler
	adminStaff *hrhandler.EmployeeHandler
	hrStaff    *hrhandler.EmployeeHandler
	shifts     *hrhandler.ShiftHandler
	leave      *hrhandler.LeaveHandler
	payroll    *hrhandler.PayrollHandler
	attendance *hrhandler.AttendanceHandler
	hrBoard    *hrhandler.DashboardHandler
	orders     *invhandler.OrderHandler
	catalog    *invhandler.CatalogHandler
	billing    *billinghandler.BillingHandler
}

func newRouter(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, authn *authmw.Authenticator, h *handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.admin.Health)
	r.Get("/db-health", h.admin.DBHealth)
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.auth.Login)
		r.With(authn.Authenticate).Post("/logout", h.auth.Logout)
		r.With(authn.Authenticate).Get("/verify-auth", h.auth.VerifyAuth)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authn.Authenticate)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authmw.RequireArea(permissions.AreaAdmin))

			r.Get("/dashboard", h.admin.Dashboard)
			r.Get("/departments", h.adminStaff.ListDepartments)
			r.Post("/departments", h.adminStaff.CreateDepartment)
			r.Delete("/departments/{id}", h.adminStaff.DeleteDepartment)
			r.Get("/employees", h.adminStaff.List)
			r.Post("/employees", h.adminStaff.Create)
			r.Get("/employees/{id}", h.adminStaff.Get)
			r.Put("/employees/{id}", h.adminStaff.Update)
			r.Delete("/employees/{id}", h.adminStaff.Delete)
		})

		r.Route("/hr", func(r chi.Router) {
			r.Use(authmw.RequireArea(permissions.AreaHR))

			r.Get("/dashboard", h.hrBoard.Get)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.hrStaff.List)
				r.Post("/", h.hrStaff.Create)
				r.Post("/purge-inactive", h.hrStaff.PurgeInactive)
				r.Get("/{id}", h.hrStaff.Get)
				r.Put("/{id}", h.hrStaff.Update)
				r.Put("/{id}/deactivate", h.hrStaff.Deactivate)
				r.Delete("/{id}", h.hrStaff.Delete)
			})
			r.Get("/departments", h.hrStaff.ListDepartments)
			r.Get("/departments/{id}/employees", h.hrStaff.ListByDepartment)

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.shifts.List)
				r.Post("/generate", h.shifts.Generate)
				r.Put("/adjust/{employeeId}/{date}", h.shifts.Adjust)
				r.Put("/{id}", h.shifts.Update)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.attendance.List)
				r.Post("/", h.attendance.Record)
				r.Get("/{id}/export", h.attendance.Export)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Get("/", h.leave.List)
				r.Post("/", h.leave.Create)
				r.Put("/{id}/approve", h.leave.Approve)
				r.Put("/{id}/reject", h.leave.Reject)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/", h.payroll.List)
				r.Post("/process", h.payroll.Process)
				r.Get("/status", h.payroll.Status)
				r.Get("/{employeeId}", h.payroll.Get)
				r.Get("/{employeeId}/payslip", h.payroll.Payslip)
				r.Post("/{employeeId}/payslip/send", h.payroll.SendPayslip)
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(authmw.RequireArea(permissions.AreaInventory))

			r.Get("/stock-alerts", h.orders.StockAlerts)

			r.Route("/supplier-orders", func(r chi.Router) {
				r.Post("/", h.orders.Place)
				r.Get("/current", h.orders.Current)
				r.Get("/history", h.orders.History)
				r.Get("/search", h.orders.Search)
				r.Get("/{invoice}", h.orders.Track)
				r.Get("/{invoice}/items", h.orders.Items)
				r.Put("/{invoice}/status", h.orders.UpdateStatus)
				r.Delete("/{invoice}", h.orders.Cancel)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.catalog.ListProducts)
				r.Post("/", h.catalog.CreateProduct)
				r.Get("/{id}", h.catalog.GetProduct)
				r.Put("/{id}", h.catalog.UpdateProduct)
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", h.catalog.ListSuppliers)
				r.Post("/", h.catalog.CreateSupplier)
				r.Get("/{id}", h.catalog.GetSupplier)
				r.Put("/{id}", h.catalog.UpdateSupplier)
				r.Get("/{id}/orders", h.orders.BySupplier)
			})

			r.Get("/categories", h.catalog.ListCategories)
			r.Post("/categories", h.catalog.CreateCategory)
			r.Get("/brands", h.catalog.ListBrands)
			r.Post("/brands", h.catalog.CreateBrand)
		})

		r.Route("/cashier", func(r chi.Router) {
			r.Use(authmw.RequireArea(permissions.AreaCashier))

			r.Post("/create-bill", h.billing.CreateBill)
			r.Get("/bill-history", h.billing.History)
			r.Get("/stock", h.billing.Stock)
			r.Post("/feedback", h.billing.Feedback)
		})
	})

	return r
}
