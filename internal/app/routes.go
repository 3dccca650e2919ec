package app

import (
	"github.com/gorilla/mux"
	"github.com/smartspend/smartspend/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Ledger
	r.HandleFunc("/api/ledger/{period}", deps.LedgerHandler.GetPeriod).Methods("GET")
	r.HandleFunc("/api/ledger/{period}/overview", deps.LedgerHandler.GetOverview).Methods("GET")
	r.HandleFunc("/api/ledger/{period}/upcoming", deps.LedgerHandler.GetUpcomingFixed).Methods("GET")
	r.HandleFunc("/api/ledger/{period}/item", deps.LedgerHandler.CreateItem).Methods("POST")
	r.HandleFunc("/api/ledger/{period}/item/{itemId}", deps.LedgerHandler.UpdateItem).Methods("PUT")
	r.HandleFunc("/api/ledger/item/{itemId}", deps.LedgerHandler.DeleteItem).Methods("DELETE")
	r.HandleFunc("/api/ledger/summary/year", deps.LedgerHandler.GetYearSummary).Queries("year", "{year}").Methods("GET")

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.GetCategories).Methods("GET")
	r.HandleFunc("/api/category", deps.CategoryHandler.CreateCategory).Methods("POST")
	r.HandleFunc("/api/category/order", deps.CategoryHandler.ReorderCategories).Methods("PUT")
	r.HandleFunc("/api/category/{categoryId}", deps.CategoryHandler.RenameCategory).Methods("PUT")
	r.HandleFunc("/api/category/{categoryId}", deps.CategoryHandler.DeleteCategory).Methods("DELETE")

	// Fixed-expense templates
	r.HandleFunc("/api/fixed-expense/template", deps.FixedExpenseHandler.GetTemplates).Methods("GET")
	r.HandleFunc("/api/fixed-expense/template", deps.FixedExpenseHandler.CreateTemplate).Methods("POST")
	r.HandleFunc("/api/fixed-expense/template/{templateId}", deps.FixedExpenseHandler.UpdateTemplate).Methods("PUT")
	r.HandleFunc("/api/fixed-expense/template/{templateId}/active", deps.FixedExpenseHandler.ToggleTemplate).Methods("PUT")
	r.HandleFunc("/api/fixed-expense/template/{templateId}", deps.FixedExpenseHandler.DeleteTemplate).Methods("DELETE")
	r.HandleFunc("/api/fixed-expense/check", deps.FixedExpenseHandler.RunCheck).Methods("POST")

	// Excel import/export
	r.HandleFunc("/api/excel/export", deps.ExcelHandler.Export).Methods("GET")
	r.HandleFunc("/api/excel/import", deps.ExcelHandler.Import).Methods("POST")

	// Sync
	r.HandleFunc("/api/sync/status", deps.SyncHandler.GetStatus).Methods("GET")
	r.HandleFunc("/api/sync/now", deps.SyncHandler.SyncNow).Methods("POST")
	r.HandleFunc("/api/data", deps.SyncHandler.ResetData).Methods("DELETE")
}
