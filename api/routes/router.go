package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marcosalvarado/buildledger-backend/api/controllers"
	"github.com/marcosalvarado/buildledger-backend/api/middleware"
	"github.com/marcosalvarado/buildledger-backend/internal/changeorders"
	"github.com/marcosalvarado/buildledger-backend/internal/clients"
	"github.com/marcosalvarado/buildledger-backend/internal/estimates"
	"github.com/marcosalvarado/buildledger-backend/internal/expenses"
	"github.com/marcosalvarado/buildledger-backend/internal/projects"
	"github.com/marcosalvarado/buildledger-backend/internal/quickbooks"
	"github.com/marcosalvarado/buildledger-backend/internal/quotes"
	"github.com/marcosalvarado/buildledger-backend/internal/recent"
	"github.com/marcosalvarado/buildledger-backend/internal/timeentries"
	"github.com/marcosalvarado/buildledger-backend/pkg/config"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	pkgredis "github.com/marcosalvarado/buildledger-backend/pkg/redis"
)

type Services struct {
	Clients      clients.Service
	Projects     projects.Service
	Estimates    estimates.Service
	Quotes       quotes.Service
	ChangeOrders changeorders.Service
	Expenses     expenses.Service
	TimeEntries  timeentries.Service
	QuickBooks   quickbooks.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	idemStore *pkgredis.IdempotencyStore,
	recentStore *recent.Store,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Actor(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", controllers.ClientCreate(svcs.Clients, logg))
			r.Get("/", controllers.ClientList(svcs.Clients, logg))
			r.Get("/{clientId}", controllers.ClientGet(svcs.Clients, logg))
			r.Put("/{clientId}", controllers.ClientUpdate(svcs.Clients, logg))
			r.Delete("/{clientId}", controllers.ClientDelete(svcs.Clients, logg))
		})

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", controllers.ProjectCreate(svcs.Projects, logg))
			r.Get("/", controllers.ProjectList(svcs.Projects, logg))
			r.Get("/recent", controllers.ProjectsRecent(svcs.Projects, recentStore, logg))
			r.Get("/{projectId}", controllers.ProjectGet(svcs.Projects, recentStore, logg))
			r.Put("/{projectId}", controllers.ProjectUpdate(svcs.Projects, logg))
			r.Delete("/{projectId}", controllers.ProjectDelete(svcs.Projects, logg))
		})

		r.Route("/estimates", func(r chi.Router) {
			r.Post("/", controllers.EstimateCreate(svcs.Estimates, logg))
			r.Get("/", controllers.EstimateList(svcs.Estimates, logg))
			r.Route("/{estimateId}", func(r chi.Router) {
				r.Get("/", controllers.EstimateGet(svcs.Estimates, logg))
				r.Get("/totals", controllers.EstimateTotals(svcs.Estimates, logg))
				r.Get("/export.csv", controllers.EstimateExportCSV(svcs.Estimates, logg))
				r.Put("/line-items", controllers.EstimateReplaceLineItems(svcs.Estimates, logg))
				r.Post("/status", controllers.EstimateUpdateStatus(svcs.Estimates, logg))
				r.Post("/versions", controllers.EstimateCreateVersion(svcs.Estimates, logg))
				r.Post("/contingency/allocations", controllers.EstimateAllocateContingency(svcs.Estimates, logg))
			})
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", controllers.QuoteCreate(svcs.Quotes, logg))
			r.Get("/", controllers.QuoteList(svcs.Quotes, logg))
			r.Route("/{quoteId}", func(r chi.Router) {
				r.Get("/", controllers.QuoteGet(svcs.Quotes, logg))
				r.Get("/comparison", controllers.QuoteComparison(svcs.Quotes, logg))
				r.Post("/accept", controllers.QuoteAccept(svcs.Quotes, logg))
				r.Post("/reject", controllers.QuoteReject(svcs.Quotes, logg))
				r.Post("/reopen", controllers.QuoteReopen(svcs.Quotes, logg))
			})
		})

		r.Route("/change-orders", func(r chi.Router) {
			r.Post("/", controllers.ChangeOrderCreate(svcs.ChangeOrders, logg))
			r.Get("/", controllers.ChangeOrderList(svcs.ChangeOrders, logg))
			r.Get("/rollup", controllers.ChangeOrderRollup(svcs.ChangeOrders, logg))
			r.Route("/{changeOrderId}", func(r chi.Router) {
				r.Get("/", controllers.ChangeOrderGet(svcs.ChangeOrders, logg))
				r.Post("/approve", controllers.ChangeOrderApprove(svcs.ChangeOrders, logg))
				r.Post("/reject", controllers.ChangeOrderReject(svcs.ChangeOrders, logg))
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", controllers.ExpenseCreate(svcs.Expenses, logg))
			r.Get("/", controllers.ExpenseList(svcs.Expenses, logg))
			r.Get("/variance", controllers.ExpenseVariance(svcs.Expenses, logg))
			r.Get("/{expenseId}", controllers.ExpenseGet(svcs.Expenses, logg))
		})

		r.Route("/time-entries", func(r chi.Router) {
			r.Post("/", controllers.TimeEntryCreate(svcs.TimeEntries, logg))
			r.Get("/", controllers.TimeEntryList(svcs.TimeEntries, logg))
			r.Get("/labor-summary", controllers.TimeEntryLaborSummary(svcs.TimeEntries, logg))
		})

		r.Route("/quickbooks", func(r chi.Router) {
			r.Route("/mappings", func(r chi.Router) {
				r.Put("/", controllers.QuickBooksMappingUpsert(svcs.QuickBooks, logg))
				r.Get("/", controllers.QuickBooksMappingList(svcs.QuickBooks, logg))
			})
			r.Route("/syncs", func(r chi.Router) {
				r.Post("/", controllers.QuickBooksSyncRecord(svcs.QuickBooks, logg))
				r.Get("/", controllers.QuickBooksSyncHistory(svcs.QuickBooks, logg))
				r.Get("/latest", controllers.QuickBooksSyncLatest(svcs.QuickBooks, logg))
			})
		})
	})

	return r
}
