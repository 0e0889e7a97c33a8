package delivery_http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"feed-service/internal/application/identity"
	ports "feed-service/internal/domain/ports/output"
)

// identityMiddleware resolves the bearer token once per request and stores
// the result on the request context. It never rejects a request.
func identityMiddleware(gate *identity.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rc := gate.Resolve(req.Header.Get(echo.HeaderAuthorization))
			c.SetRequest(req.WithContext(identity.NewContext(req.Context(), rc)))
			return next(c)
		}
	}
}

func requestLogger(log ports.Logger, metrics ports.MetricsProvider) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(v.Status)
			metrics.IncrementHTTPRequests(v.Method, route, status)
			metrics.RecordHTTPRequestDuration(v.Method, route, status, v.Latency)

			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Status >= http.StatusInternalServerError {
				if v.Error != nil {
					attrs = append(attrs, slog.String("error", v.Error.Error()))
				}
				log.Error("HTTP request failed", attrs...)
				return nil
			}
			log.Debug("HTTP request", attrs...)
			return nil
		},
	})
}
