package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/pkg/metrics"
)

// RPCMetrics counts calls of the RPC routes by method name and outcome.
// A call is failed when the handler set the "rpc_error" key.
func RPCMetrics(m *metrics.RPCMetrics, method string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		_, failed := c.Get("rpc_error")
		m.Observe(method, !failed && c.Writer.Status() < 400)
	}
}
