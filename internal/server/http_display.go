package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
	s.displayScoringInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health    - Health check")
	fmt.Println("  GET  /stats     - Server statistics")
	fmt.Println("  GET  /taxonomy  - Active keyword taxonomy")
	fmt.Println("  POST /score     - Score a resume document")
	fmt.Println("  POST /review    - AI resume review")
	fmt.Println("  POST /keywords  - AI job keyword match")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	switch {
	case len(s.APIKeys) > 0 && s.JWTAuth != nil:
		fmt.Printf("API authentication: ENABLED (%d keys configured, JWT accepted)\n", len(s.APIKeys))
	case len(s.APIKeys) > 0:
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /score, /review and /keywords")
	case s.JWTAuth != nil:
		fmt.Println("API authentication: ENABLED (JWT bearer tokens)")
	default:
		fmt.Println("API authentication: DISABLED (no API keys or JWT secret configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}

// displayScoringInfo shows the taxonomy, cache and AI setup
func (s *Server) displayScoringInfo() {
	fmt.Printf("Taxonomy: %d keywords", s.Scorer().Taxonomy().Size())
	if s.Watcher != nil {
		fmt.Printf(" (watching %s)", s.Watcher.File())
	}
	fmt.Println()

	if s.Cache != nil {
		fmt.Println("Report cache: ENABLED")
	} else {
		fmt.Println("Report cache: DISABLED")
	}

	if s.Reviewer != nil || s.Keywords != nil {
		fmt.Println("AI features: ENABLED")
	} else {
		fmt.Println("AI features: DISABLED (/review and /keywords return 503)")
	}
}
