package server

import "net/http"

// registerRoutes attaches all API endpoints to the mux
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	mux.HandleFunc("/api/portfolio/performance", s.handlePortfolioPerformance)
	mux.HandleFunc("/api/portfolio/allocation", s.handlePortfolioAllocation)
	mux.HandleFunc("/api/portfolio/fundamentals", s.handlePortfolioFundamentals)
	mux.HandleFunc("/api/portfolio/benchmarks", s.handlePortfolioBenchmarks)

	mux.HandleFunc("/api/market/history", s.handleMarketHistory)
	mux.HandleFunc("/api/market/trends", s.handleMarketTrends)
}
