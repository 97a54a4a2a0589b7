package route_api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"routing/executor"
	"routing/graph"
)

// Server hosts the routing HTTP API.
type Server struct {
	handlers *Handlers
	addr     string
	srv      *http.Server
}

// NewServer builds the gin server for the routing core.
func NewServer(store *graph.Store, exec *executor.Executor, port string) *Server {
	return &Server{
		handlers: NewHandlers(store, exec),
		addr:     ":" + port,
	}
}

// Router assembles the gin engine with every API route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/request_path", s.handlers.RequestPath)
		api.POST("/request_path_async", s.handlers.RequestPathAsync)
		api.GET("/task/:task_id", s.handlers.TaskStatus)
		api.POST("/traffic_update", s.handlers.TrafficUpdate)
		api.GET("/nodes", s.handlers.Nodes)
		api.GET("/roads", s.handlers.Roads)
		api.GET("/stats", s.handlers.Stats)
	}
	return router
}

// Start runs the server in a goroutine and returns.
func (s *Server) Start() {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("routing API listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
}

// Stop closes the listener.
func (s *Server) Stop() error {
	if s.srv != nil {
		return s.srv.Close()
	}
	return nil
}
