package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mdbplc/advisor"
	"github.com/mdbplc/advisor/config"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id,omitempty"`
}

// New builds the HTTP transport. The chat endpoint always answers 200
// with a user-facing response string; internal failures surface as
// friendly text, never as HTTP errors.
func New(client *advisor.Client) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/chat", handleChat(client))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// Run serves the engine on the configured address.
func Run(client *advisor.Client, cfg config.ServerConfig) error {
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	return New(client).Run(addr)
}

func handleChat(client *advisor.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, chatResponse{Response: "Please enter a question about Midland Bank."})
			return
		}
		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = client.Sessions().Create().ID
		}
		reply := client.HandleMessage(c.Request.Context(), sessionID, req.Message)
		c.JSON(http.StatusOK, chatResponse{Response: reply, SessionID: sessionID})
	}
}
