// Package server exposes the vector store over a small REST API.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/quangdv/declutter/pkg/vecstore"
)

// Server holds the state for the REST API server.
type Server struct {
	store  *vecstore.Store
	router *gin.Engine
}

// New creates a Server around an opened vector store.
func New(store *vecstore.Store) *Server {
	r := gin.Default()
	s := &Server{
		store:  store,
		router: r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/v1/query", s.handleQuery)
	s.router.GET("/v1/summary", s.handleSummary)
	s.router.GET("/v1/topics", s.handleTopics)
}
