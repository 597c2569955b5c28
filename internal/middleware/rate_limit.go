package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"tableconfig-editor/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configuration for rate limiting
type RateLimiterConfig struct {
	// Requests per minute
	RPM int `json:"rpm"`
	// Burst size
	Burst int `json:"burst"`
	// Cleanup interval for inactive clients
	CleanupInterval time.Duration `json:"cleanupInterval"`
}

// DefaultRateLimiterConfig returns default configuration
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RPM:             120,
		Burst:           20,
		CleanupInterval: 5 * time.Minute,
	}
}

// RateLimiter implements per-client rate limiting
type RateLimiter struct {
	config  RateLimiterConfig
	clients map[string]*ClientLimiter
	mutex   sync.RWMutex
}

// ClientLimiter represents rate limiter for a specific client
type ClientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.RPM <= 0 {
		config.RPM = 120
	}
	if config.Burst <= 0 {
		config.Burst = 20
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &RateLimiter{
		config:  config,
		clients: make(map[string]*ClientLimiter),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// RateLimit creates a rate limiting middleware
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := rl.getClientID(c)

		rl.mutex.Lock()
		if _, exists := rl.clients[clientID]; !exists {
			rl.clients[clientID] = &ClientLimiter{
				limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.config.RPM)), rl.config.Burst),
				lastSeen: time.Now(),
			}
		}

		client := rl.clients[clientID]
		client.lastSeen = time.Now()
		rl.mutex.Unlock()

		if !client.limiter.Allow() {
			rl.rateLimitExceeded(c)
			return
		}

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.RPM))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(client.limiter.Tokens())))

		c.Next()
	}
}

// getClientID extracts client identifier for rate limiting
func (rl *RateLimiter) getClientID(c *gin.Context) string {
	// Priority order: authenticated subject, then IP address
	if subject, exists := c.Get("auth_subject"); exists {
		if id, ok := subject.(string); ok {
			return "user:" + id
		}
	}

	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = "unknown"
	}
	return "ip:" + clientIP
}

// rateLimitExceeded handles rate limit exceeded scenario
func (rl *RateLimiter) rateLimitExceeded(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, response.ErrorResponse(
		"RATE_LIMIT_EXCEEDED",
		"Rate limit exceeded. Please try again later.",
		"Maximum "+strconv.Itoa(rl.config.RPM)+" requests per minute allowed",
		rl.getCorrelationID(c),
	))
	c.Abort()
}

// getCorrelationID extracts correlation ID from context
func (rl *RateLimiter) getCorrelationID(c *gin.Context) string {
	if correlationID, exists := c.Get(CorrelationIDKey); exists {
		if id, ok := correlationID.(string); ok {
			return id
		}
	}
	return ""
}

// cleanup removes inactive clients
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		now := time.Now()

		for clientID, client := range rl.clients {
			if now.Sub(client.lastSeen) > rl.config.CleanupInterval {
				delete(rl.clients, clientID)
			}
		}

		rl.mutex.Unlock()
	}
}

// GetStats returns current rate limiting statistics
func (rl *RateLimiter) GetStats() RateLimitStats {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return RateLimitStats{
		ActiveClients: len(rl.clients),
		Config:        rl.config,
	}
}

// RateLimitStats contains rate limiting statistics
type RateLimitStats struct {
	ActiveClients int               `json:"activeClients"`
	Config        RateLimiterConfig `json:"config"`
}
